package pipeline

// Artifact layout under the store's namespace. The coordinator is the
// only component that interprets these paths; everything else treats
// them as opaque strings.
//
//	videos/{id}/{name}                 raw media
//	transcripts/{id}/transcript.json   transcription job output
//	notes/{id}/notes.txt               cached generated notes

const videoPrefix = "videos/"

func mediaPath(videoID, name string) string {
	return videoPrefix + videoID + "/" + name
}

func transcriptPath(videoID string) string {
	return "transcripts/" + videoID + "/transcript.json"
}

func notesPath(videoID string) string {
	return "notes/" + videoID + "/notes.txt"
}
