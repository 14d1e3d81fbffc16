package lookup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cruxstack/find-my-rep-go/internal/types"
)

const (
	TypeCouncillor = "councillor"
	TypePCC        = "pcc"

	TitleCouncillor = "Councillor"
	TitlePCC        = "Police and Crime Commissioner"
)

type councillor struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Party   string `json:"party"`
	Ward    string `json:"ward"`
	Council string `json:"council"`
	Email   string `json:"email"`
}

type pcc struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Force string `json:"force"`
	Area  string `json:"area"`
	Email string `json:"email"`
}

type nestedResponse struct {
	Postcode    string       `json:"postcode"`
	Councillors []councillor `json:"councillors"`
	PCC         *pcc         `json:"pcc"`
}

// Normalize accepts either a flat list of representatives or the nested
// councillors/pcc payload and returns a flat list. Entries without an email
// address are dropped since no letter can reach them.
func Normalize(body []byte) ([]types.Representative, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, ErrInvalidResponse
	}

	var reps []types.Representative

	switch body[0] {
	case '[':
		var flat []types.Representative
		if err := json.Unmarshal(body, &flat); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		reps = flat
	case '{':
		var nested nestedResponse
		if err := json.Unmarshal(body, &nested); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		for _, c := range nested.Councillors {
			reps = append(reps, types.Representative{
				Name:  c.Name,
				Email: c.Email,
				Title: TitleCouncillor,
				Type:  TypeCouncillor,
			})
		}
		if nested.PCC != nil {
			reps = append(reps, types.Representative{
				Name:  nested.PCC.Name,
				Email: nested.PCC.Email,
				Title: TitlePCC,
				Type:  TypePCC,
			})
		}
	case 'n':
		if string(body) == "null" {
			return nil, nil
		}
		return nil, ErrInvalidResponse
	default:
		return nil, ErrInvalidResponse
	}

	out := make([]types.Representative, 0, len(reps))
	for _, r := range reps {
		r.Name = strings.TrimSpace(r.Name)
		r.Email = strings.TrimSpace(r.Email)
		if r.Email == "" {
			continue
		}
		out = append(out, r)
	}

	return out, nil
}
