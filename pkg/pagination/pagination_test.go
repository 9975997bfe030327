package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		page    string
		perPage string
		want    Params
		ok      bool
	}{
		{name: "valid", page: "2", perPage: "10", want: Params{Page: 2, PerPage: 10}, ok: true},
		{name: "capped", page: "1", perPage: "1000", want: Params{Page: 1, PerPage: MaxPerPage}, ok: true},
		{name: "missing page", page: "", perPage: "10"},
		{name: "missing per page", page: "1", perPage: ""},
		{name: "not a number", page: "abc", perPage: "10"},
		{name: "zero", page: "0", perPage: "10"},
		{name: "negative", page: "1", perPage: "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.page, tt.perPage)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, PerPage: 10}.Offset())
	assert.Equal(t, 20, Params{Page: 3, PerPage: 10}.Offset())
	assert.Equal(t, 10, Params{Page: 3, PerPage: 10}.Limit())
}
