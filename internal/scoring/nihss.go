package scoring

import (
	"strconv"
	"strings"
)

const (
	NIHSSNone       = "No stroke signs"
	NIHSSMinor      = "Minor stroke"
	NIHSSModerate   = "Moderate stroke"
	NIHSSSevere     = "Severe stroke"
	NIHSSVerySevere = "Very severe stroke"
)

// Untestable marks an item that cannot be rated (amputation, joint
// fusion, intubation). It contributes nothing to the total.
const Untestable = -1

// NIHSSMax is the sum of the per-item maxima of the 13-item form.
const NIHSSMax = 34

type NIHItem string

const (
	ItemConsciousness NIHItem = "consciousness"
	ItemOrientation   NIHItem = "orientation"
	ItemCommands      NIHItem = "commands"
	ItemGaze          NIHItem = "gaze"
	ItemVisualField   NIHItem = "visual_field"
	ItemFacialPalsy   NIHItem = "facial_palsy"
	ItemUpperLimb     NIHItem = "upper_limb_motor"
	ItemLowerLimb     NIHItem = "lower_limb_motor"
	ItemAtaxia        NIHItem = "ataxia"
	ItemSensory       NIHItem = "sensory"
	ItemLanguage      NIHItem = "language"
	ItemDysarthria    NIHItem = "dysarthria"
	ItemExtinction    NIHItem = "extinction"
)

type itemDomain struct {
	item       NIHItem
	max        int
	untestable bool
}

// nihItems lists the form in its clinical order.
var nihItems = []itemDomain{
	{ItemConsciousness, 3, false},
	{ItemOrientation, 2, false},
	{ItemCommands, 2, false},
	{ItemGaze, 2, false},
	{ItemVisualField, 3, false},
	{ItemFacialPalsy, 3, false},
	{ItemUpperLimb, 4, true},
	{ItemLowerLimb, 4, true},
	{ItemAtaxia, 2, false},
	{ItemSensory, 2, false},
	{ItemLanguage, 3, false},
	{ItemDysarthria, 2, true},
	{ItemExtinction, 2, false},
}

// NIHItems returns the 13 items in form order.
func NIHItems() []NIHItem {
	items := make([]NIHItem, len(nihItems))
	for i, d := range nihItems {
		items[i] = d.item
	}
	return items
}

// ItemMax returns the highest rating an item accepts and whether it may
// be marked Untestable.
func ItemMax(item NIHItem) (maxRating int, untestable bool, ok bool) {
	for _, d := range nihItems {
		if d.item == item {
			return d.max, d.untestable, true
		}
	}
	return 0, false, false
}

type NIHSSInput struct {
	Consciousness int `json:"consciousness"`
	Orientation   int `json:"orientation"`
	Commands      int `json:"commands"`
	Gaze          int `json:"gaze"`
	VisualField   int `json:"visual_field"`
	FacialPalsy   int `json:"facial_palsy"`
	UpperLimb     int `json:"upper_limb_motor"`
	LowerLimb     int `json:"lower_limb_motor"`
	Ataxia        int `json:"ataxia"`
	Sensory       int `json:"sensory"`
	Language      int `json:"language"`
	Dysarthria    int `json:"dysarthria"`
	Extinction    int `json:"extinction"`
}

func (in NIHSSInput) values() []int {
	return []int{
		in.Consciousness, in.Orientation, in.Commands, in.Gaze,
		in.VisualField, in.FacialPalsy, in.UpperLimb, in.LowerLimb,
		in.Ataxia, in.Sensory, in.Language, in.Dysarthria, in.Extinction,
	}
}

type NIHSSResult struct {
	Total          int       `json:"total"`
	Max            int       `json:"max"`
	Untestable     []NIHItem `json:"untestable,omitempty"`
	Interpretation string    `json:"interpretation"`
}

func NIHSS(in NIHSSInput) (NIHSSResult, error) {
	values := in.values()

	var untestable []NIHItem
	for i, d := range nihItems {
		v := values[i]
		if v == Untestable {
			if !d.untestable {
				return NIHSSResult{}, invalid(string(d.item), "cannot be marked untestable")
			}
			untestable = append(untestable, d.item)
			continue
		}
		if err := checkRange(string(d.item), v, 0, d.max); err != nil {
			return NIHSSResult{}, err
		}
	}

	total := 0
	for _, v := range values {
		if v != Untestable {
			total += v
		}
	}

	return NIHSSResult{
		Total:          total,
		Max:            NIHSSMax,
		Untestable:     untestable,
		Interpretation: InterpretNIHSS(total),
	}, nil
}

func InterpretNIHSS(total int) string {
	switch {
	case total <= 0:
		return NIHSSNone
	case total < 5:
		return NIHSSMinor
	case total < 16:
		return NIHSSModerate
	case total < 21:
		return NIHSSSevere
	default:
		return NIHSSVerySevere
	}
}

// ParseNIHSSItems builds an input from textual cotations keyed by item
// name. Every item must be present; "X" or "UN" marks an untestable item.
func ParseNIHSSItems(raw map[string]string) (NIHSSInput, error) {
	for name := range raw {
		if _, _, ok := ItemMax(NIHItem(name)); !ok {
			return NIHSSInput{}, invalid(name, "is not a NIHSS item")
		}
	}

	parsed := make(map[NIHItem]int, len(nihItems))
	for _, d := range nihItems {
		s, ok := raw[string(d.item)]
		if !ok {
			return NIHSSInput{}, invalid(string(d.item), "is missing")
		}
		v, err := parseCotation(s)
		if err != nil {
			return NIHSSInput{}, invalid(string(d.item), "%q is not a rating", s)
		}
		parsed[d.item] = v
	}

	return NIHSSInput{
		Consciousness: parsed[ItemConsciousness],
		Orientation:   parsed[ItemOrientation],
		Commands:      parsed[ItemCommands],
		Gaze:          parsed[ItemGaze],
		VisualField:   parsed[ItemVisualField],
		FacialPalsy:   parsed[ItemFacialPalsy],
		UpperLimb:     parsed[ItemUpperLimb],
		LowerLimb:     parsed[ItemLowerLimb],
		Ataxia:        parsed[ItemAtaxia],
		Sensory:       parsed[ItemSensory],
		Language:      parsed[ItemLanguage],
		Dysarthria:    parsed[ItemDysarthria],
		Extinction:    parsed[ItemExtinction],
	}, nil
}

func parseCotation(s string) (int, error) {
	s = strings.TrimSpace(s)
	switch strings.ToUpper(s) {
	case "X", "UN":
		return Untestable, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, strconv.ErrRange
	}
	return v, nil
}
