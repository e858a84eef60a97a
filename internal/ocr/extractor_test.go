package ocr

import (
	"context"
	"errors"
	"image"
	"testing"

	apperrors "github.com/anime-shed/label-inspector-go/internal/errors"
)

func fakeEngine(tokens []Token, err error) Engine {
	return EngineFunc(func(ctx context.Context, img *image.Gray) ([]Token, error) {
		return tokens, err
	})
}

func blank() *image.Gray {
	return image.NewGray(image.Rect(0, 0, 20, 10))
}

func TestExtract_ConfidenceFilter(t *testing.T) {
	tokens := []Token{
		{Text: "INGREDIENTS:", Confidence: 91},
		{Text: "wheat", Confidence: 88},
		{Text: "fl0ur", Confidence: 30}, // equal to threshold: dropped
		{Text: "  ", Confidence: 95},    // blank: dropped
		{Text: "sugar", Confidence: 31},
		{Text: "", Confidence: -1},
	}
	ex := NewExtractor(fakeEngine(tokens, nil))

	res, err := ex.ExtractDetailed(context.Background(), blank(), 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "INGREDIENTS: wheat sugar" {
		t.Errorf("unexpected text %q", res.Text)
	}
	if res.Kept != 3 || res.Dropped != 3 {
		t.Errorf("expected 3 kept / 3 dropped, got %d / %d", res.Kept, res.Dropped)
	}
	// mean over 91, 88, 30, 95, 31
	if want := 67.0; res.Confidence != want {
		t.Errorf("expected confidence %v, got %v", want, res.Confidence)
	}
}

func TestExtract_ThresholdIsClamped(t *testing.T) {
	tokens := []Token{{Text: "salt", Confidence: 0.5}, {Text: "oil", Confidence: 100}}
	ex := NewExtractor(fakeEngine(tokens, nil))

	tests := []struct {
		threshold int
		want      string
	}{
		{-20, "salt oil"},
		{0, "salt oil"},
		{99, "oil"},
		{100, ""},
		{250, ""},
	}
	for _, tt := range tests {
		got, err := ex.Extract(context.Background(), blank(), tt.threshold)
		if err != nil {
			t.Fatalf("threshold %d: unexpected error: %v", tt.threshold, err)
		}
		if got != tt.want {
			t.Errorf("threshold %d: got %q, want %q", tt.threshold, got, tt.want)
		}
	}
}

func TestExtract_HigherThresholdNeverAddsWords(t *testing.T) {
	tokens := []Token{
		{Text: "a", Confidence: 10}, {Text: "b", Confidence: 40}, {Text: "c", Confidence: 70},
		{Text: "d", Confidence: 95}, {Text: "e", Confidence: 55},
	}
	ex := NewExtractor(fakeEngine(tokens, nil))
	prev := -1
	for th := 0; th <= 100; th += 5 {
		res, err := ex.ExtractDetailed(context.Background(), blank(), th)
		if err != nil {
			t.Fatal(err)
		}
		if prev >= 0 && res.Kept > prev {
			t.Errorf("threshold %d kept %d words, more than %d at lower threshold", th, res.Kept, prev)
		}
		prev = res.Kept
	}
}

func TestExtract_Errors(t *testing.T) {
	engineErr := errors.New("tesseract crashed")

	tests := []struct {
		name string
		ex   *Extractor
		img  *image.Gray
	}{
		{"engine failure", NewExtractor(fakeEngine(nil, engineErr)), blank()},
		{"nil engine", NewExtractor(nil), blank()},
		{"nil image", NewExtractor(fakeEngine(nil, nil)), nil},
		{"empty image", NewExtractor(fakeEngine(nil, nil)), image.NewGray(image.Rect(0, 0, 0, 0))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.ex.Extract(context.Background(), tt.img, 30)
			if err == nil {
				t.Fatal("expected error")
			}
			if !apperrors.IsType(err, apperrors.ErrorTypeExtraction) {
				t.Errorf("expected extraction error, got %v", err)
			}
		})
	}

	_, err := NewExtractor(fakeEngine(nil, engineErr)).Extract(context.Background(), blank(), 30)
	if !errors.Is(err, engineErr) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}
}

func TestExtract_NoTokensIsEmptyText(t *testing.T) {
	ex := NewExtractor(fakeEngine(nil, nil))
	got, err := ex.Extract(context.Background(), blank(), DefaultConfidenceThreshold)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
}

func TestConfidence(t *testing.T) {
	ex := NewExtractor(fakeEngine([]Token{{Text: "a", Confidence: 80}, {Text: "b", Confidence: 60}, {Confidence: -1}}, nil))
	if got := ex.Confidence(context.Background(), blank()); got != 70 {
		t.Errorf("expected 70, got %v", got)
	}

	failing := NewExtractor(fakeEngine(nil, errors.New("down")))
	if got := failing.Confidence(context.Background(), blank()); got != 0 {
		t.Errorf("expected 0 on failure, got %v", got)
	}

	none := NewExtractor(fakeEngine(nil, nil))
	if got := none.Confidence(context.Background(), blank()); got != 0 {
		t.Errorf("expected 0 with no tokens, got %v", got)
	}
}
