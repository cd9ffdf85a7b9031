// Package avatar generates placeholder avatar URLs for records without an
// uploaded image.
package avatar

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const BaseURL = "https://tiley.herokuapp.com/avatar"

// Generate returns a deterministic placeholder URL for the given id and
// display name. The tile color is keyed on the id and the letter on the name.
func Generate(id, name string) string {
	sum := md5.Sum([]byte(id))
	return fmt.Sprintf("%s/%s/%s.png", BaseURL, hex.EncodeToString(sum[:]), initial(name))
}

func initial(name string) string {
	name = strings.TrimSpace(name)
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || !unicode.IsPrint(r) {
		return "?"
	}
	return string(unicode.ToUpper(r))
}
