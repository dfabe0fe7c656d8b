package lakeshore

import (
	"strconv"
	"strings"
)

// ParseError indicates an instrument reply that could not be decoded.
type ParseError struct {
	Query string
	Reply string
}

func (e *ParseError) Error() string {
	return "lakeshore: bad reply to " + e.Query + ": " + strconv.Quote(e.Reply)
}

// Unit prefix returned by FIELDM?, mapped to its multiplier.
var unitMult = map[string]float64{
	"u": 1e-6,
	"m": 1e-3,
	"":  1,
	"k": 1e3,
}

// parseReading decodes an ALLF? reply. Anything other than exactly
// three numeric fields is an error.
func parseReading(reply string) (r Reading, err error) {
	parts := strings.Split(strings.TrimSpace(reply), ",")
	if len(parts) != 3 {
		return r, &ParseError{Query: "ALLF?", Reply: reply}
	}
	vals := make([]float64, 3)
	for i, part := range parts {
		vals[i], err = strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Reading{}, &ParseError{Query: "ALLF?", Reply: reply}
		}
	}
	r.X, r.Y, r.Z = vals[0], vals[1], vals[2]
	return r, nil
}
