package sentiment

import "fmt"

// Classification is the sentiment label attached to one feedback entry.
type Classification uint8

const (
	Positive Classification = iota + 1
	Negative
	Neutral
	Mixed
)

func (c Classification) String() string {
	switch c {
	case Positive:
		return "Positive"
	case Negative:
		return "Negative"
	case Neutral:
		return "Neutral"
	case Mixed:
		return "Mixed"
	default:
		return fmt.Sprintf("Classification(%d)", uint8(c))
	}
}

func (c Classification) MarshalText() ([]byte, error) {
	switch c {
	case Positive, Negative, Neutral, Mixed:
		return []byte(c.String()), nil
	default:
		return nil, fmt.Errorf("invalid classification %d", uint8(c))
	}
}

func (c *Classification) UnmarshalText(text []byte) error {
	parsed, err := ParseClassification(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func ParseClassification(s string) (Classification, error) {
	switch s {
	case "Positive":
		return Positive, nil
	case "Negative":
		return Negative, nil
	case "Neutral":
		return Neutral, nil
	case "Mixed":
		return Mixed, nil
	default:
		return 0, fmt.Errorf("unknown classification %q", s)
	}
}

// FromStars maps a 1-5 star signal onto a classification.
func FromStars(stars int) Classification {
	switch {
	case stars >= 4:
		return Positive
	case stars == 3:
		return Neutral
	default:
		return Negative
	}
}
