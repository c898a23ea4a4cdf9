package traderpro

import "testing"

func TestNormalizeSymbol(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"btc", "BTC"},
		{"  eth  ", "ETH"},
		{"AAPL", "AAPL"},
		{"", ""},
		{"  ", ""},
	}
	for _, c := range cases {
		if got := normalizeSymbol(c.in); got != c.want {
			t.Fatalf("normalizeSymbol(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestResolveCandidatesCrypto(t *testing.T) {
	got := resolveCandidates("btc")
	if len(got) != 1 || got[0] != "BTC-USD" {
		t.Fatalf("expected [BTC-USD], got %v", got)
	}
}

func TestResolveCandidatesStock(t *testing.T) {
	got := resolveCandidates("AAPL")
	if len(got) != 2 || got[0] != "AAPL" || got[1] != "AAPL-USD" {
		t.Fatalf("expected [AAPL AAPL-USD], got %v", got)
	}
}

func TestResolveCandidatesAlreadySuffixed(t *testing.T) {
	got := resolveCandidates("SOL-USD")
	if len(got) != 1 || got[0] != "SOL-USD" {
		t.Fatalf("expected [SOL-USD], got %v", got)
	}
}

func TestResolveCandidatesEmpty(t *testing.T) {
	if got := resolveCandidates("   "); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestIsCryptoTicker(t *testing.T) {
	if !isCryptoTicker("DOGE") {
		t.Fatalf("expected DOGE to be crypto")
	}
	if isCryptoTicker("TSLA") {
		t.Fatalf("expected TSLA to not be crypto")
	}
}
