package feed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rainybook/domain/mbo"
	"rainybook/domain/orderbook"
)

func writeFeedFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeFeedFile(t, "events.csv",
		"action,side,price,order_id,size\n"+
			"1,1,10050,123,100\n"+
			"1,2,10052,124,50\n"+
			"4,1,10050,123,40\n"+
			"2,2,10052,124,0\n")

	msgs, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, msgs, 4)

	assert.Equal(t, mbo.Message{
		Action: mbo.ActionAdd, Side: orderbook.Bid, Price: 10050, OrderID: 123, Size: 100,
	}, msgs[0])
	assert.Equal(t, mbo.ActionFill, msgs[2].Action)
	assert.Equal(t, uint64(40), msgs[2].Size)
	assert.Equal(t, mbo.ActionCancel, msgs[3].Action)
}

func TestReadCSVWithoutHeader(t *testing.T) {
	path := writeFeedFile(t, "events.csv", "1,1,10050,1,100\n3,1,10050,1,150\n")

	msgs, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, mbo.ActionModify, msgs[1].Action)
}

func TestReadCSVRejectsBadActionCode(t *testing.T) {
	path := writeFeedFile(t, "events.csv", "9,1,10050,1,100\n")

	_, err := ReadFile(path)
	var unknown *mbo.UnknownActionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, int8(9), unknown.Code)
}

func TestReadCSVRejectsBadSideCode(t *testing.T) {
	path := writeFeedFile(t, "events.csv", "1,5,10050,1,100\n")

	_, err := ReadFile(path)
	var conv *mbo.SideConversionError
	require.ErrorAs(t, err, &conv)
	assert.Equal(t, int8(5), conv.Code)
}

func TestReadCSVRejectsRaggedRow(t *testing.T) {
	path := writeFeedFile(t, "events.csv", "1,1,10050,1\n")

	_, err := ReadFile(path)
	assert.Error(t, err)
}

func TestReadJSONL(t *testing.T) {
	path := writeFeedFile(t, "events.jsonl",
		`{"action":"add","side":"bid","price":10050,"order_id":1,"size":100}`+"\n"+
			"\n"+ // blank lines are skipped
			`{"action":"clear"}`+"\n"+
			`{"action":"add","side":"ask","price":10052,"order_id":2,"size":50}`+"\n")

	msgs, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, msgs, 3)

	assert.Equal(t, mbo.ActionAdd, msgs[0].Action)
	assert.Equal(t, orderbook.Bid, msgs[0].Side)
	assert.Equal(t, mbo.ActionClear, msgs[1].Action)
	assert.Equal(t, orderbook.Ask, msgs[2].Side)
}

func TestReadJSONLRejectsBadSide(t *testing.T) {
	path := writeFeedFile(t, "events.ndjson",
		`{"action":"add","side":"buy","price":10050,"order_id":1,"size":100}`+"\n")

	_, err := ReadFile(path)
	var conv *mbo.SideConversionError
	assert.ErrorAs(t, err, &conv)
}

func TestReadJSONLRejectsMalformedLine(t *testing.T) {
	path := writeFeedFile(t, "events.jsonl", "{not json\n")

	_, err := ReadFile(path)
	assert.Error(t, err)
}

func TestReadFileUnknownExtension(t *testing.T) {
	path := writeFeedFile(t, "events.txt", "whatever")

	_, err := ReadFile(path)
	assert.ErrorContains(t, err, "unsupported feed file extension")
}

func TestNormalizeSideHandling(t *testing.T) {
	// A missing side is tolerated for sideless actions; a present but
	// unknown side is always an error.
	msg, err := event{Action: "trade", Price: 10050, OrderID: 1, Size: 5}.normalize()
	require.NoError(t, err)
	assert.Equal(t, mbo.ActionTrade, msg.Action)

	_, err = event{Action: "add", Side: "buy", Price: 10050, OrderID: 1, Size: 5}.normalize()
	assert.Error(t, err)
}
