package decode

import "strings"

// Stitch joins chunk fragments into one string. Fragments are separated by a
// single space, except that an empty fragment contributes nothing (and no
// separator) and no space follows a fragment ending in a hyphen, so
// hyphen-split compounds rejoin cleanly. The result is trimmed; stitching a
// single fragment returns it unchanged net of trimming.
func Stitch(fragments []string) string {
	var b strings.Builder
	for _, frag := range fragments {
		if frag == "" {
			continue
		}
		if b.Len() > 0 && !endsInHyphen(&b) {
			b.WriteByte(' ')
		}
		b.WriteString(frag)
	}
	return strings.TrimSpace(b.String())
}

func endsInHyphen(b *strings.Builder) bool {
	s := b.String()
	return len(s) > 0 && s[len(s)-1] == '-'
}
