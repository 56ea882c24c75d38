package handlers

import (
	"mangosteen-ledger/app/server/constants"
	"testing"
)

func TestParsePage(t *testing.T) {
	a := &App{}
	cases := []struct {
		raw    string
		page   int
		offset int
	}{
		{"", 1, 0},
		{"abc", 1, 0},
		{"0", 1, 0},
		{"-3", 1, 0},
		{"2", 2, 10},
		{"9223372036854775807", constants.RecordMaxPage, (constants.RecordMaxPage - 1) * constants.RecordPageSize},
	}
	for _, tc := range cases {
		page, offset := a.parsePage(tc.raw)
		if page != tc.page || offset != tc.offset {
			t.Errorf("parsePage(%q) = %d, %d; want %d, %d", tc.raw, page, offset, tc.page, tc.offset)
		}
	}
}
