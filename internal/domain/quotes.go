package domain

import "math/rand/v2"

// QuoteScreen tags where a quote may be shown.
type QuoteScreen string

const (
	ScreenStartUnpleasant QuoteScreen = "start-unpleasant-5min"
	ScreenTimerPleasant   QuoteScreen = "timer-pleasant"
	ScreenCompletion      QuoteScreen = "completion"
)

// Quote is a short motivational line with attribution.
type Quote struct {
	Text   string
	Author string
	Screen QuoteScreen
}

// Quotes is the built-in quote table.
var Quotes = []Quote{
	{
		Text:   "Task anxiety is a house of cards. It falls apart the moment you start",
		Author: "Irfan Bhanji",
		Screen: ScreenStartUnpleasant,
	},
	{
		Text:   "There's no such thing as *later*. It's just another word for *never*.",
		Author: "Sahil Bloom",
		Screen: ScreenTimerPleasant,
	},
	{
		Text:   "Doing things is energizing, wasting time is depressing. You don't need that much 'rest'.",
		Author: "Nabeel S. Qureshi",
		Screen: ScreenTimerPleasant,
	},
	{
		Text:   "If you do the most important thing first each day, then you'll always get something important done",
		Author: "James Clear",
		Screen: ScreenCompletion,
	},
	{
		Text:   "Never sacrifice momentum. I might know a better path, but if we've got a lot of momentum, if everyone's united and they're marching together and the path is O.K., just go with the flow.",
		Author: "Ben Chestnut",
		Screen: ScreenCompletion,
	},
}

// QuotesFor returns the quotes tagged for screen.
func QuotesFor(screen QuoteScreen) []Quote {
	var out []Quote
	for _, q := range Quotes {
		if q.Screen == screen {
			out = append(out, q)
		}
	}
	return out
}

// QuoteFor picks one quote for screen. A nil rng uses the global source.
func QuoteFor(screen QuoteScreen, rng *rand.Rand) (Quote, bool) {
	candidates := QuotesFor(screen)
	if len(candidates) == 0 {
		return Quote{}, false
	}
	var i int
	if rng != nil {
		i = rng.IntN(len(candidates))
	} else {
		i = rand.IntN(len(candidates))
	}
	return candidates[i], true
}
