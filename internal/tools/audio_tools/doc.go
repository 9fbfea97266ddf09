// Package audio_tools provides the MCP tool for narrating text with MiniMax.
//
// Tools:
//   - audio_generate: Narrate text and save the audio file in the configured
//     audio directory
package audio_tools
