package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"rainybook/domain/mbo"
)

// StreamResult carries either one decoded message or a terminal error.
type StreamResult struct {
	Msg mbo.Message
	Err error
}

// Stream subscribes to a websocket feed of JSON events and decodes
// them until the context is cancelled or the connection drops. The
// returned channel is closed on exit; the last result carries the
// terminal error, if any.
func Stream(ctx context.Context, url string, log zerolog.Logger) chan StreamResult {
	results := make(chan StreamResult)

	go func() {
		defer close(results)

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err != nil {
			results <- StreamResult{Err: fmt.Errorf("dial %s: %w", url, err)}
			return
		}
		defer conn.Close()

		go func() {
			<-ctx.Done()
			log.Debug().Msg("closing websocket connection")
			_ = conn.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			)
			_ = conn.Close()
		}()

		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil {
					results <- StreamResult{Err: err}
				}
				return
			}

			var e event
			if err := json.Unmarshal(raw, &e); err != nil {
				log.Warn().Err(err).Msg("dropping undecodable feed frame")
				continue
			}
			msg, err := e.normalize()
			if err != nil {
				results <- StreamResult{Err: err}
				return
			}

			select {
			case results <- StreamResult{Msg: msg}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return results
}
