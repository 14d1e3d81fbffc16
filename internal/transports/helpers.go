package transports

import "net/mail"

// ParseNameAddr splits "Name <addr>" into its parts. Input that does not
// parse is returned unchanged as the address.
func ParseNameAddr(s string) (string, string) {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return "", s
	}
	return addr.Name, addr.Address
}
