package news

import (
	"context"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestTickerLike(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"AAPL", true},
		{"F", true},
		{"BRK.B", true},
		{"BF-B", true},
		{"삼성전자", false},
		{"한빛소프트", false},
		{"aapl", false},
		{"TOOLONGX", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tickerLike(tt.name))
	}
}

func TestFinnhubSkipsNonTickerNames(t *testing.T) {
	c := NewFinnhubClient("test-key", 3)

	// No API call happens for a scraped Korean name.
	items, err := c.FetchNews(context.Background(), "삼성전자")

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(items))
}
