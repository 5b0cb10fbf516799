package notify

import (
	"context"
	"testing"
)

func TestChunkTokens(t *testing.T) {
	tokens := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = "t"
		}
		return out
	}

	tests := []struct {
		name       string
		count      int
		size       int
		wantChunks []int
	}{
		{"empty", 0, 500, nil},
		{"below limit", 3, 500, []int{3}},
		{"exactly limit", 500, 500, []int{500}},
		{"one over limit", 501, 500, []int{500, 1}},
		{"several batches", 1250, 500, []int{500, 500, 250}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches := chunkTokens(tokens(tt.count), tt.size)
			if len(batches) != len(tt.wantChunks) {
				t.Fatalf("chunkTokens() produced %d batches, want %d", len(batches), len(tt.wantChunks))
			}
			for i, want := range tt.wantChunks {
				if len(batches[i]) != want {
					t.Errorf("batch %d has %d tokens, want %d", i, len(batches[i]), want)
				}
			}
		})
	}
}

func TestNoopSender(t *testing.T) {
	if err := (NoopSender{}).Send(context.Background(), []string{"a"}, Message{Title: "x"}); err != nil {
		t.Errorf("NoopSender.Send() error = %v", err)
	}
}

func TestDispatchNilSender(t *testing.T) {
	// Must not panic with no sender or no tokens.
	Dispatch(nil, []string{"a"}, Message{})
	Dispatch(NoopSender{}, nil, Message{})
}
