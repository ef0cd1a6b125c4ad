package symbol

// Variables that the engine and host functions refer to directly. They are
// interned first, in this order, into every table created by NewPredeclared
// and into Default.
const (
	Input ID = iota
	Arg1
	Arg2
	In
	Match
	Replace
	InContext
	Recursive
	Order
	Begin
	End
	Filter
	Choice
	Choices
	Format
	Tag
	Contents
	Set
	Game
	Stylesheet
	CardStyle
	Card
	Styling
	Value
	Condition
	Language

	// CustomFirst is the first ID available to names that are not predeclared.
	CustomFirst
)

var predeclaredNames = []string{
	"input",
	"_1",
	"_2",
	"in",
	"match",
	"replace",
	"in_context",
	"recursive",
	"order",
	"begin",
	"end",
	"filter",
	"choice",
	"choices",
	"format",
	"tag",
	"contents",
	"set",
	"game",
	"stylesheet",
	"card_style",
	"card",
	"styling",
	"value",
	"condition",
	"language",
}

// NewPredeclared returns a table holding only the predeclared names.
func NewPredeclared() *Table {
	t := NewTable()
	for i, name := range predeclaredNames {
		if id := t.MustIntern(name); id != ID(i) {
			panic("symbol: predeclared name " + name + " has unexpected id")
		}
	}
	return t
}
