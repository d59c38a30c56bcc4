package main

import "testing"

func TestAPIBaseURL(t *testing.T) {
	t.Setenv("JSHOP_API_URL", "")
	if got := apiBaseURL(); got != "http://localhost:5000" {
		t.Errorf("default = %q", got)
	}

	t.Setenv("JSHOP_API_URL", "https://shop.example.com")
	if got := apiBaseURL(); got != "https://shop.example.com" {
		t.Errorf("override = %q", got)
	}
}
