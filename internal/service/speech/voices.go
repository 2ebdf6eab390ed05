package speech

import "strings"

// FallbackVoiceID is used when neither the request nor ELEVENLABS_VOICE_ID
// names a voice.
const FallbackVoiceID = "21m00Tcm4TlvBVlC8paTOq"

// voiceAliases maps friendly names to provider voice ids so clients don't
// have to carry raw ElevenLabs identifiers.
var voiceAliases = map[string]string{
	"turkish-male": "pNInz6obpgDQGcFmaJgB",
	"male-deep":    "VR6AewLTigWG4xSOukaG",
	"narrator":     "TxGEqnHWrfWFTfGW9XjX",
	"female":       "EXAVITQu4vr4xnSDxMaL",
}

// ResolveVoice turns an optional request voice into a provider voice id:
// alias lookup first, then the raw id as given, then the configured default.
func (s *Service) ResolveVoice(voiceID string) string {
	voice := strings.TrimSpace(voiceID)
	if voice == "" {
		return s.defaultVoice
	}
	if resolved, ok := voiceAliases[strings.ToLower(voice)]; ok {
		return resolved
	}
	return voice
}
