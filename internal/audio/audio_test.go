package audio

import "testing"

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want Format
	}{
		{"wav", append([]byte("RIFF\x00\x00\x00\x00WAVE"), 0), FormatWAV},
		{"ogg", []byte("OggS\x00\x02"), FormatOGG},
		{"flac", []byte("fLaC\x00"), FormatFLAC},
		{"webm", []byte{0x1A, 0x45, 0xDF, 0xA3, 0x01}, FormatWebM},
		{"m4a", []byte("\x00\x00\x00\x20ftypM4A "), FormatM4A},
		{"mp3 id3", []byte("ID3\x04\x00"), FormatMP3},
		{"mp3 frame sync", []byte{0xFF, 0xFB, 0x90, 0x00}, FormatMP3},
		{"unknown", []byte("not audio at all"), FormatUnknown},
		{"empty", nil, FormatUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectFormat(tc.data); got != tc.want {
				t.Fatalf("DetectFormat = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFormatExtensionAndContentType(t *testing.T) {
	if got := FormatUnknown.Extension(); got != "webm" {
		t.Fatalf("unknown Extension = %q, want webm", got)
	}
	if got := FormatMP3.Extension(); got != "mp3" {
		t.Fatalf("mp3 Extension = %q, want mp3", got)
	}
	if got := FormatMP3.ContentType(); got != "audio/mpeg" {
		t.Fatalf("mp3 ContentType = %q, want audio/mpeg", got)
	}
	if got := FormatUnknown.ContentType(); got != "audio/webm" {
		t.Fatalf("unknown ContentType = %q, want audio/webm", got)
	}
}

func TestEstimateSpeechDuration(t *testing.T) {
	if got := EstimateSpeechDuration(""); got != 1 {
		t.Fatalf("empty duration = %v, want floor of 1", got)
	}
	if got := EstimateSpeechDuration("one two three"); got != 1 {
		t.Fatalf("short text duration = %v, want floor of 1", got)
	}
	// 180 words at 180 wpm reads in 60 seconds.
	long := ""
	for i := 0; i < 180; i++ {
		long += "word "
	}
	if got := EstimateSpeechDuration(long); got != 60 {
		t.Fatalf("180-word duration = %v, want 60", got)
	}
}
