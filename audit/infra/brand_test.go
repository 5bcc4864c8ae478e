package infra

import "testing"

func TestBrandDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "https://www.example.com", want: "example.com"},
		{in: "https://shop.example.co.uk/path", want: "example.co.uk"},
		{in: "https://Pomelo.PL", want: "pomelo.pl"},
		{in: "http://localhost:8080", want: "localhost"},
		{in: "http://127.0.0.1:8080", want: "127.0.0.1"},
		{in: "http://[::1]:8080", want: "::1"},
	}
	for _, tt := range tests {
		if got := BrandDomain(mustTarget(t, tt.in)); got != tt.want {
			t.Errorf("BrandDomain(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMentioned(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		brand  string
		want   bool
	}{
		{name: "full domain", answer: "Example.com sells shoes.", brand: "example.com", want: true},
		{name: "first label", answer: "Acme offers anvils.", brand: "acme.pl", want: true},
		{name: "substring of longer word", answer: "Welcome to Acmeville.", brand: "acme.pl", want: true},
		{name: "absent", answer: "I have no information about that company.", brand: "pomelo.pl", want: false},
		{name: "empty brand", answer: "anything", brand: "", want: false},
		{name: "ip first octet", answer: "We have 0 info about 127 things.", brand: "127.0.0.1", want: true},
		{name: "ip absent", answer: "We have 0 info about that.", brand: "127.0.0.1", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mentioned(tt.answer, tt.brand); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBrandPrompt(t *testing.T) {
	want := "Find information about services or products offered by example.com. Keep response under 100 words."
	if got := BrandPrompt("example.com"); got != want {
		t.Fatalf("unexpected prompt: %q", got)
	}
}
