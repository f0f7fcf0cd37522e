package synthesis

// VoicePair alternates two fixed voices across utterances so a script reads
// as a two-speaker dialogue without any speaker metadata from the caller.
type VoicePair struct {
	Host   string
	Expert string
}

// DefaultVoices are the LMNT voices used for host and expert turns.
var DefaultVoices = VoicePair{Host: "brandon", Expert: "juniper"}

// Voice maps a zero-based utterance index to a voice identifier. Even
// indices speak with the host voice, odd indices with the expert voice.
// The mapping is pure, so retried runs assign the same voices.
func (v VoicePair) Voice(index int) string {
	if index%2 == 0 {
		return v.Host
	}
	return v.Expert
}
