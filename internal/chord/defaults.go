package chord

// Prompt kinds used by the default bindings.
const (
	PromptActivity = "activity"
	PromptNote     = "note"
)

// UndoMarker is the name undo bindings carry; the emitted marker is always
// "UNDO_<original>".
const UndoMarker = "UNDO"

func plain(keys, name string) Binding {
	return Binding{Keys: keys, Spec: MarkerSpec{Name: name, Kind: KindPlain}}
}

func prompt(keys, name, kind string) Binding {
	return Binding{Keys: keys, Spec: MarkerSpec{Name: name, Kind: KindPrompt, Prompt: kind}}
}

// noted is a prompt binding that emits only once the label is known.
func noted(keys, name, kind string) Binding {
	b := prompt(keys, name, kind)
	b.Spec.Deferred = true
	return b
}

func undo(keys string) Binding {
	return Binding{Keys: keys, Spec: MarkerSpec{Name: UndoMarker, Kind: KindUndo}}
}

// Defaults returns the classroom session bindings.
func Defaults() []Binding {
	return []Binding{
		plain("x", "Test"),
		plain("t", "ClassStarted"),
		prompt("a", "NewActivity", PromptActivity),
		plain("b", "Books"),
		plain("c", "Clapping"),
		plain("d", "Dancing"),
		plain("r", "RepeatAfterMe"),
		plain("p", "GetPrizes"),
		plain("e", "ClassEnded"),
		undo("u"),

		plain("si", "Singing"),
		plain("gm", "GeneralMusic"),
		plain("ss", "SimonSays"),
		plain("hs", "HeadShouldersKneesToes"),
		plain("br", "Breathing"),
		plain("qt", "QuietTime"),
		plain("cp", "ChoicePlay"),
		plain("ec", "EarnCoins"),
		plain("cc", "ClosingCircle"),
		noted("im", "InterestingMoment", PromptNote),
		undo("un"),
	}
}

// DefaultPrompts returns the question shown for each default prompt kind.
func DefaultPrompts() map[string]string {
	return map[string]string{
		PromptActivity: "Enter activity name: ",
		PromptNote:     "What was interesting? ",
	}
}
