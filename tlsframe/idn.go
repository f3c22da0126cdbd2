package tlsframe

import "golang.org/x/net/idna"

// idnaProfile decodes a Punycode/ASCII SNI host name to its Unicode form.
// ValidateLabels and StrictDomainName are both disabled so that a label
// containing an unassigned or unusual code point is still decoded rather
// than rejected outright — the closest equivalent this library offers to
// an "AllowUnassigned" IDNA mapping.
var idnaProfile = idna.New(
	idna.MapForLookup(),
	idna.Transitional(false),
	idna.ValidateLabels(false),
	idna.StrictDomainName(false),
)

func decodeIDN(host string) (string, error) {
	return idnaProfile.ToUnicode(host)
}
