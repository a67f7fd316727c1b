package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhones(t *testing.T) {
	got := Phones("Call +1 415-555-0123 or (628) 555-9999 today")

	normalized := make([]string, 0, len(got))
	for _, p := range got {
		normalized = append(normalized, strings.TrimPrefix(p, "+"))
	}
	assert.ElementsMatch(t, []string{"14155550123", "6285559999"}, normalized)
}

func TestPhonesRejectsShort(t *testing.T) {
	assert.Empty(t, Phones("ext. 555-01"))
}

func TestPhonesDedup(t *testing.T) {
	got := Phones("Tel: 415-555-0123. Fax: 415 555 0123.")
	assert.Len(t, got, 1)
}

func TestPhonesEmpty(t *testing.T) {
	assert.Nil(t, Phones(""))
}

func TestSocials(t *testing.T) {
	html := `<html><body>
		<a href="https://www.facebook.com/AcmeCo">fb</a>
		<a href="https://twitter.com/acme_co">tw</a>
		<a href="http://instagram.com/acme.co">ig</a>
		<a href="https://www.linkedin.com/company/acme-co">li</a>
		<a href="https://linkedin.com/in/jane-doe">li2</a>
		<a href="https://youtube.com/user/acmetv">yt</a>
		<a href="https://www.facebook.com/AcmeCo">fb again</a>
	</body></html>`

	links := Socials(html)

	assert.Equal(t, []string{"facebook.com/AcmeCo"}, links.Facebook)
	assert.Equal(t, []string{"twitter.com/acme_co"}, links.Twitter)
	assert.Equal(t, []string{"instagram.com/acme.co"}, links.Instagram)
	assert.Equal(t, []string{"linkedin.com/company/acme-co", "linkedin.com/in/jane-doe"}, links.Linkedin)
	assert.Equal(t, []string{"youtube.com/user/acmetv"}, links.Youtube)
}

func TestAddresses(t *testing.T) {
	text := "Visit us at 123 Main Street, Springfield, IL 62701 or write to " +
		"456 Oak Avenue, Portland, OR 97201. No address here: Main Street."

	got := Addresses(text)

	assert.Len(t, got, 2)
	assert.Contains(t, got[0], "123 Main Street")
	assert.Contains(t, got[1], "456 Oak Avenue")
}

func TestText(t *testing.T) {
	html := `<html><head><title>Acme</title><style>body{color:red}</style></head>
	<body><script>var x = 1;</script><nav>Home | About</nav>
	<h1>Acme &amp; Sons</h1><p>Call   us</p><footer>(c) Acme</footer></body></html>`

	text := Text(html)

	assert.Contains(t, text, "Acme & Sons")
	assert.Contains(t, text, "Call us")
	assert.NotContains(t, text, "var x")
	assert.NotContains(t, text, "color:red")
	assert.NotContains(t, text, "Home | About")
	assert.NotContains(t, text, "(c) Acme")
}
