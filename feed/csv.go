package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"rainybook/domain/mbo"
)

// readCSV decodes a CSV event file. Columns are numeric feed codes:
//
//	action,side,price,order_id,size
//
// A header row is detected and skipped. Rows with unknown action or
// side codes fail the whole decode; the book never sees them.
func readCSV(path string) ([]mbo.Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 5
	r.ReuseRecord = true

	var messages []mbo.Message
	row := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			return messages, nil
		}
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", row+1, err)
		}
		row++
		if row == 1 && record[0] == "action" {
			continue
		}

		msg, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", row, err)
		}
		messages = append(messages, msg)
	}
}

func parseRow(record []string) (mbo.Message, error) {
	actionCode, err := strconv.ParseInt(record[0], 10, 8)
	if err != nil {
		return mbo.Message{}, fmt.Errorf("action: %w", err)
	}
	action, err := mbo.ActionFromCode(int8(actionCode))
	if err != nil {
		return mbo.Message{}, err
	}

	sideCode, err := strconv.ParseInt(record[1], 10, 8)
	if err != nil {
		return mbo.Message{}, fmt.Errorf("side: %w", err)
	}
	side, err := mbo.SideFromCode(int8(sideCode))
	if err != nil {
		return mbo.Message{}, err
	}

	price, err := strconv.ParseInt(record[2], 10, 64)
	if err != nil {
		return mbo.Message{}, fmt.Errorf("price: %w", err)
	}
	orderID, err := strconv.ParseUint(record[3], 10, 64)
	if err != nil {
		return mbo.Message{}, fmt.Errorf("order_id: %w", err)
	}
	size, err := strconv.ParseUint(record[4], 10, 64)
	if err != nil {
		return mbo.Message{}, fmt.Errorf("size: %w", err)
	}

	return mbo.Message{
		Action:  action,
		Side:    side,
		Price:   price,
		OrderID: orderID,
		Size:    size,
	}, nil
}
