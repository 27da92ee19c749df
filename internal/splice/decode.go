package splice

import (
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// toUTF8 transcodes a source page to UTF-8 using its BOM or <meta charset> declaration.
// Pages that are already UTF-8, or plain ASCII, are returned unchanged.
func toUTF8(data []byte) ([]byte, string, error) {
	enc, name, _ := charset.DetermineEncoding(data, "text/html")
	if name == "utf-8" || isASCII(data) {
		return data, "utf-8", nil
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, name, err
	}
	return out, name, nil
}

func isASCII(data []byte) bool {
	for _, c := range data {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
