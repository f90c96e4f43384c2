package domain

// GestureIntent is one entry of the static gesture-to-intent table.
// Animation for a gesture-triggered response always comes from this table;
// emotion comes from the keyword scan of the reply text, so the two can
// disagree.
type GestureIntent struct {
	Intent    string
	Animation string
	Emotion   string
}

// gestureIntents maps the device-classified motion labels to their fixed
// intent, animation, and emotion. Read-only after initialization.
var gestureIntents = map[string]GestureIntent{
	"wave":       {Intent: "greet", Animation: "wave_back", Emotion: "happy"},
	"flick":      {Intent: "scroll", Animation: "scroll_gesture", Emotion: "neutral"},
	"shake":      {Intent: "refresh", Animation: "shake_head", Emotion: "confused"},
	"tilt_left":  {Intent: "turn_left", Animation: "look_left", Emotion: "curious"},
	"tilt_right": {Intent: "turn_right", Animation: "look_right", Emotion: "curious"},
	"rotate_cw":  {Intent: "rotate_right", Animation: "spin_right", Emotion: "happy"},
	"rotate_ccw": {Intent: "rotate_left", Animation: "spin_left", Emotion: "happy"},
}

// IdleIntent is the fallback for gesture labels not present in the table.
var IdleIntent = GestureIntent{Intent: "idle", Animation: "idle", Emotion: "neutral"}

// LookupGesture returns the intent entry for a gesture label. Unknown
// labels never fail; they degrade to IdleIntent.
func LookupGesture(label string) GestureIntent {
	if intent, ok := gestureIntents[label]; ok {
		return intent
	}
	return IdleIntent
}

// ButtonReply is one canned reply for a hardware button press.
type ButtonReply struct {
	Text      string
	Animation string
}

var buttonReplies = map[string]ButtonReply{
	"A": {Text: "Button A pressed!", Animation: "wave"},
	"B": {Text: "Button B pressed!", Animation: "point"},
}

// LookupButton returns the canned reply for a button id. Unknown ids
// degrade to an empty reply with the idle animation.
func LookupButton(id string) ButtonReply {
	if reply, ok := buttonReplies[id]; ok {
		return reply
	}
	return ButtonReply{Text: "", Animation: "idle"}
}
