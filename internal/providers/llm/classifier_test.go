package llm

import "testing"

func TestParseSentimentPlainJSON(t *testing.T) {
	got := parseSentiment(`{"score": 0.6, "confidence": 0.8, "label": "bullish", "keywords": ["Earnings", "guidance"]}`)
	if got.Score != 0.6 || got.Confidence != 0.8 || got.Label != "bullish" {
		t.Fatalf("unexpected sentiment %+v", got)
	}
	if len(got.Keywords) != 2 || got.Keywords[0] != "earnings" {
		t.Fatalf("unexpected keywords %v", got.Keywords)
	}
}

func TestParseSentimentCodeFence(t *testing.T) {
	got := parseSentiment("```json\n{\"score\": -0.4, \"confidence\": 0.5, \"label\": \"bearish\"}\n```")
	if got.Score != -0.4 || got.Label != "bearish" {
		t.Fatalf("unexpected sentiment %+v", got)
	}
}

func TestParseSentimentGarbageIsNeutral(t *testing.T) {
	got := parseSentiment("I could not classify this article.")
	if got.Score != 0 || got.Confidence != 0 || got.Label != "neutral" {
		t.Fatalf("expected neutral, got %+v", got)
	}
}

func TestParseSentimentClampsAndRelabels(t *testing.T) {
	got := parseSentiment(`{"score": 3.0, "confidence": 2.0, "label": "very good"}`)
	if got.Score != 1 || got.Confidence != 1 {
		t.Fatalf("expected clamped values, got %+v", got)
	}
	if got.Label != "bullish" {
		t.Fatalf("expected relabel to bullish, got %q", got.Label)
	}
}
