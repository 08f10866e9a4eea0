package services

import (
	"errors"
	"reflect"
	"testing"
)

func TestScanContent(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{"clean text", "I believe renewable energy is the better long term bet.", nil},
		{"single hit", "I hate this proposal.", []string{"hate"}},
		{"case insensitive", "You are an IDIOT.", []string{"idiot"}},
		{"multiple hits", "Only a stupid idiot would hate this.", []string{"stupid", "idiot", "hate"}},
		{"two word phrase", "Just shut up already.", []string{"shut up"}},
	}

	for _, tc := range cases {
		got := ScanContent(tc.text)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: ScanContent(%q) = %v, want %v", tc.name, tc.text, got, tc.want)
		}
	}
}

func TestCheckContent(t *testing.T) {
	if err := CheckContent("A perfectly reasonable argument."); err != nil {
		t.Fatalf("clean content rejected: %v", err)
	}

	err := CheckContent("this is dumb and worthless")
	if err == nil {
		t.Fatal("expected a moderation error")
	}
	var modErr *ModerationError
	if !errors.As(err, &modErr) {
		t.Fatalf("expected *ModerationError, got %T", err)
	}
	// 错误里要带上全部命中词
	want := []string{"dumb", "worthless"}
	if !reflect.DeepEqual(modErr.Words, want) {
		t.Errorf("blocked words = %v, want %v", modErr.Words, want)
	}
}
