// Package narration turns text into speech with the MiniMax text-to-speech API.
//
// A Request carries the text plus tone, speed and language settings. Client.Generate
// never fails with a Go error; transport problems, API errors and malformed
// responses are all reported as an unsuccessful Response with a fixed
// message. A successful Response holds either an audio URL or the decoded
// audio bytes, which SaveAudio writes to disk.
package narration
