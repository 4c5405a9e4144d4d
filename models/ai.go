package models

// Generation requests and responses are transient; nothing here is persisted.
// The client is the system of record for generated artifacts.

type SummarizeRequest struct {
	Text string `json:"text_to_summarize"`
}

type SummarizeResponse struct {
	Summary string `json:"summary"`
}

type FlashcardsRequest struct {
	Text string `json:"text_to_generate_from"`
}

type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type FlashcardsResponse struct {
	Flashcards []Flashcard `json:"flashcards"`
}

type StudyNotesRequest struct {
	Text string `json:"text_to_generate_notes_from"`
}

type StudyNotesResponse struct {
	StudyNotes string `json:"study_notes"`
}
