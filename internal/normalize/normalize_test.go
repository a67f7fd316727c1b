package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomain(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare domain", "acme.com", "acme.com"},
		{"https with www", "https://www.acme.com", "acme.com"},
		{"http no www", "http://acme.com", "acme.com"},
		{"path and query", "https://www.acme.com/about?ref=x", "acme.com"},
		{"subdomain collapses to registered domain", "https://shop.acme.co.uk/cart", "acme.co.uk"},
		{"uppercase", "HTTPS://WWW.ACME.COM", "acme.com"},
		{"trailing dot", "acme.com.", "acme.com"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Domain(tt.in))
		})
	}
}

func TestDomainSchemeEquivalence(t *testing.T) {
	// https://www.X and http://X normalize identically.
	for _, d := range []string{"acme.com", "example.org", "firma.de"} {
		assert.Equal(t, Domain("http://"+d), Domain("https://www."+d))
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"us formatted", "+1 (415) 555-0123", "4155550123"},
		{"bare ten digits", "4155550123", "4155550123"},
		{"eleven digits keeps last ten", "14155550123", "4155550123"},
		{"international", "+40 721 123 456", "0721123456"},
		{"eight digits kept", "12345678", "12345678"},
		{"too short", "555-0123", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Phone(tt.in))
		})
	}
}

func TestPhoneIdempotent(t *testing.T) {
	for _, in := range []string{"+1 (415) 555-0123", "4155550123", "0040 721 123 456"} {
		once := Phone(in)
		assert.Equal(t, once, Phone(once))
	}
}

func TestFacebook(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"full url", "https://www.facebook.com/AcmeCo/", "acmeco"},
		{"case insensitive", "https://facebook.com/Acme", "acme"},
		{"no scheme", "facebook.com/acme.co", "acme.co"},
		{"fb short domain", "https://fb.com/acme", "acme"},
		{"profile id", "https://www.facebook.com/profile.php?id=1234567890", "1234567890"},
		{"unrecognized passes through stripped", "https://www.example.com/acme", "example.com/acme"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Facebook(tt.in))
		})
	}
}

func TestFoldName(t *testing.T) {
	assert.Equal(t, "acme industries", FoldName("  Acme Industries "))
	assert.Equal(t, "societe generale", FoldName("Société Générale"))
	assert.Equal(t, "", FoldName(""))
}
