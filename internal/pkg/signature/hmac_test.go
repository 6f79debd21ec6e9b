package signature

import (
	"strings"
	"testing"
)

func TestSignKnownVector(t *testing.T) {
	v := NewHMACVerifier("secret")
	const want = "b82fcb791acec57859b989b430a826488ce2e479fdf92326bd0a2e8375a42ba4"
	if got := v.Sign([]byte("payload")); got != want {
		t.Fatalf("unexpected signature %s", got)
	}
}

func TestVerify(t *testing.T) {
	v := NewHMACVerifier("secret")
	body := []byte(`{"orderId":"ord_1","resultCode":"000"}`)
	sig := v.Sign(body)

	cases := []struct {
		name string
		sig  string
		body []byte
		want bool
	}{
		{"valid", sig, body, true},
		{"prefixed", "sha256=" + sig, body, true},
		{"upper prefix and hex", "SHA256=" + strings.ToUpper(sig), body, true},
		{"tampered body", sig, []byte(`{"orderId":"ord_2"}`), false},
		{"wrong signature", strings.Repeat("0", 64), body, false},
		{"not hex", "zz", body, false},
		{"empty", "", body, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := v.Verify(tc.body, tc.sig); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestVerifyWithEmptySecretAlwaysFails(t *testing.T) {
	v := NewHMACVerifier("")
	if v.Verify([]byte("x"), v.Sign([]byte("x"))) {
		t.Fatal("expected verification without secret to fail")
	}
}
