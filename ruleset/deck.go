package ruleset

import "fmt"

var standardRanks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}
var standardSuits = []string{"hearts", "diamonds", "clubs", "spades"}
var unoColors = []string{"red", "yellow", "green", "blue"}
var unoRanks = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "skip", "reverse", "draw_two"}

// DeckTemplates expands a DeckConfig's preset or explicit card list into
// the flat (suit, rank) template list the initializer multiplies by
// Copies. initgame and registry both need it: initgame to build the
// physical deck, registry to recover a stable suit ordering for
// variables that encode a suit as a numeric index (see trump_suit).
func DeckTemplates(cfg DeckConfig) ([]CardTemplate, error) {
	if len(cfg.Cards) > 0 {
		return cfg.Cards, nil
	}

	switch cfg.Preset {
	case DeckPresetStandard52:
		return standardDeck(false), nil
	case DeckPresetStandard54:
		return standardDeck(true), nil
	case DeckPresetUNO108:
		return unoDeck(), nil
	default:
		return nil, fmt.Errorf("unknown deck preset %q and no explicit cards", cfg.Preset)
	}
}

func standardDeck(withJokers bool) []CardTemplate {
	out := make([]CardTemplate, 0, 54)
	for _, suit := range standardSuits {
		for _, rank := range standardRanks {
			out = append(out, CardTemplate{Suit: suit, Rank: rank})
		}
	}
	if withJokers {
		out = append(out, CardTemplate{Suit: "joker", Rank: "joker"}, CardTemplate{Suit: "joker", Rank: "joker"})
	}
	return out
}

func unoDeck() []CardTemplate {
	out := make([]CardTemplate, 0, 108)
	for _, color := range unoColors {
		out = append(out, CardTemplate{Suit: color, Rank: "0"})
		for copy := 0; copy < 2; copy++ {
			for _, rank := range unoRanks[1:] {
				out = append(out, CardTemplate{Suit: color, Rank: rank})
			}
		}
	}
	for i := 0; i < 4; i++ {
		out = append(out, CardTemplate{Suit: "wild", Rank: "wild"})
	}
	for i := 0; i < 4; i++ {
		out = append(out, CardTemplate{Suit: "wild", Rank: "wild_draw_four"})
	}
	return out
}

// DistinctSuits returns every suit appearing in cfg's templates, in
// first-seen order, for builtins and variables that need a stable
// numeric encoding of "which suit" (e.g. a trump_suit variable).
func DistinctSuits(cfg DeckConfig) []string {
	templates, err := DeckTemplates(cfg)
	if err != nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, t := range templates {
		if !seen[t.Suit] {
			seen[t.Suit] = true
			out = append(out, t.Suit)
		}
	}
	return out
}
