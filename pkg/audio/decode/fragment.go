// ABOUTME: Inline audio fragment decoding
// ABOUTME: Selects a decoder by MIME type and brings the result to the playback rate
package decode

import (
	"fmt"
	"mime"
	"strconv"
	"strings"

	"github.com/harperreed/voicecart/pkg/audio"
	"github.com/harperreed/voicecart/pkg/audio/resample"
)

// ForMIME returns a decoder for an inline audio MIME type such as
// "audio/pcm;rate=24000". PCM without a rate parameter is assumed to be at
// the playback rate.
func ForMIME(mimeType string) (Decoder, error) {
	mediaType, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return nil, fmt.Errorf("%w: mime type %q: %v", ErrMalformedPayload, mimeType, err)
	}

	switch mediaType {
	case "audio/pcm", "audio/l16", "audio/x-pcm":
		rate := audio.PlaybackSampleRate
		if r, ok := params["rate"]; ok {
			parsed, err := strconv.Atoi(strings.TrimSpace(r))
			if err != nil || parsed <= 0 {
				return nil, fmt.Errorf("%w: invalid rate %q", ErrMalformedPayload, r)
			}
			rate = parsed
		}
		return NewPCM(audio.Format{Codec: "pcm", SampleRate: rate, Channels: 1, BitDepth: 16})
	case "audio/mpeg", "audio/mp3":
		return NewMP3(audio.Format{Codec: "mp3"})
	case "audio/flac", "audio/x-flac":
		return NewFLAC(audio.Format{Codec: "flac"})
	default:
		return nil, fmt.Errorf("%w: unsupported audio type %q", ErrMalformedPayload, mediaType)
	}
}

// Fragment decodes one inline audio part (base64 text plus MIME type) into a
// segment at the playback rate.
func Fragment(mimeType, data string) (audio.Segment, error) {
	payload, err := Payload(data)
	if err != nil {
		return audio.Segment{}, err
	}

	decoder, err := ForMIME(mimeType)
	if err != nil {
		return audio.Segment{}, err
	}
	defer decoder.Close()

	seg, err := decoder.Decode(payload)
	if err != nil {
		return audio.Segment{}, err
	}

	if seg.SampleRate != audio.PlaybackSampleRate {
		seg.Samples = resample.Convert(seg.Samples, seg.SampleRate, audio.PlaybackSampleRate)
		seg.SampleRate = audio.PlaybackSampleRate
	}

	return seg, nil
}
