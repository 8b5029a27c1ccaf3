package wordlist_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"codeberg.org/snonux/wordgarden/internal/wordlist"
	mock_wordlist "codeberg.org/snonux/wordgarden/internal/wordlist/mock"
)

const fruitJSON = `[
  {"character": "苹果", "pinyin": "píng guǒ", "english": "apple", "emoji": "🍎", "sentence": "我爱吃苹果。"},
  {"character": "香蕉", "pinyin": "xiāng jiāo", "english": "banana", "emoji": "🍌", "sentence": "香蕉是黄色的。"},
  {"character": "猫", "pinyin": "māo", "english": "cat", "emoji": "🐱", "sentence": "小猫在睡觉。"}
]`

func newAcquirer(t *testing.T, setup func(g *mock_wordlist.MockGenerator)) *wordlist.Acquirer {
	t.Helper()
	ctrl := gomock.NewController(t)
	gen := mock_wordlist.NewMockGenerator(ctrl)
	gen.EXPECT().Name().Return("mock").AnyTimes()
	if setup != nil {
		setup(gen)
	}
	return wordlist.NewAcquirer(gen, wordlist.DefaultConfig(), zap.NewNop())
}

func TestAcquirer_Acquire(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		response  string
		err       error
		wantCount int
	}{
		{name: "valid batch", response: fruitJSON, wantCount: 3},
		{name: "transport error", err: errors.New("connection reset"), wantCount: 0},
		{name: "empty body", response: "", wantCount: 0},
		{name: "empty array", response: "[]", wantCount: 0},
		{name: "not json", response: "here are your words: apple", wantCount: 0},
		{name: "object instead of array", response: `{"character":"猫"}`, wantCount: 0},
		{
			name:      "one item missing a field drops the whole batch",
			response:  `[{"character":"猫","pinyin":"māo","english":"cat","emoji":"🐱","sentence":"小猫。"},{"character":"狗","pinyin":"gǒu","english":"dog","emoji":"🐶"}]`,
			wantCount: 0,
		},
		{
			name:      "wrong field type",
			response:  `[{"character":"猫","pinyin":1,"english":"cat","emoji":"🐱","sentence":"小猫。"}]`,
			wantCount: 0,
		},
		{
			name:      "duplicate characters",
			response:  `[{"character":"猫","pinyin":"māo","english":"cat","emoji":"🐱","sentence":"小猫。"},{"character":"猫","pinyin":"māo","english":"kitty","emoji":"🐈","sentence":"猫咪。"}]`,
			wantCount: 0,
		},
		{
			name:      "whitespace-only field",
			response:  `[{"character":"猫","pinyin":"  ","english":"cat","emoji":"🐱","sentence":"小猫。"}]`,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			acq := newAcquirer(t, func(g *mock_wordlist.MockGenerator) {
				var body []byte
				if tt.response != "" {
					body = []byte(tt.response)
				}
				g.EXPECT().
					Generate(gomock.Any(), wordlist.Request{Theme: "fruits", Count: wordlist.DefaultWordCount}).
					Return(body, tt.err)
			})

			words := acq.Acquire(context.Background(), "fruits")
			require.NotNil(t, words)
			assert.Equal(t, tt.wantCount, words.Len())
		})
	}
}

func TestAcquirer_PreservesOrderAndTrims(t *testing.T) {
	acq := newAcquirer(t, func(g *mock_wordlist.MockGenerator) {
		g.EXPECT().Generate(gomock.Any(), gomock.Any()).Return([]byte(`[
			{"character":" 苹果 ","pinyin":"píng guǒ","english":"apple","emoji":"🍎","sentence":"我爱吃苹果。","extra":"ignored"},
			{"character":"猫","pinyin":"māo","english":"cat","emoji":"🐱","sentence":"小猫在睡觉。"}
		]`), nil)
	})

	words := acq.Acquire(context.Background(), "animals")
	require.Equal(t, 2, words.Len())
	assert.Equal(t, "苹果", words[0].Character)
	assert.Equal(t, "猫", words[1].Character)
}

func TestAcquirer_GeneratorPanicDegradesToEmpty(t *testing.T) {
	acq := newAcquirer(t, func(g *mock_wordlist.MockGenerator) {
		g.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, req wordlist.Request) ([]byte, error) {
				panic("boom")
			})
	})

	assert.True(t, acq.Acquire(context.Background(), "space").Empty())
}

func TestAcquirer_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	acq := newAcquirer(t, func(g *mock_wordlist.MockGenerator) {
		g.EXPECT().Generate(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("503 service unavailable")).
			Times(3)
	})

	for i := 0; i < 5; i++ {
		assert.True(t, acq.Acquire(context.Background(), "space").Empty())
	}
}

func TestAcquirer_CanceledRequestsDoNotTripBreaker(t *testing.T) {
	acq := newAcquirer(t, func(g *mock_wordlist.MockGenerator) {
		g.EXPECT().Generate(gomock.Any(), gomock.Any()).
			Return(nil, context.Canceled).
			Times(3)
		g.EXPECT().Generate(gomock.Any(), gomock.Any()).Return([]byte(fruitJSON), nil)
	})

	for i := 0; i < 3; i++ {
		assert.True(t, acq.Acquire(context.Background(), "fruits").Empty())
	}
	assert.Equal(t, 3, acq.Acquire(context.Background(), "fruits").Len())
}

func TestAcquirer_AppliesTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := mock_wordlist.NewMockGenerator(ctrl)
	gen.EXPECT().Name().Return("slow").AnyTimes()
	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, req wordlist.Request) ([]byte, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	acq := wordlist.NewAcquirer(gen, wordlist.Config{Count: 5, Timeout: 20 * time.Millisecond}, zap.NewNop())
	assert.True(t, acq.Acquire(context.Background(), "family").Empty())
}
