package validator

// ContentSubmitRequest is the content/homework form. Wire keys match the
// automation webhook contract.
type ContentSubmitRequest struct {
	Discipline  string `json:"disciplina" validate:"required"`
	Class       string `json:"turma" validate:"required"`
	Task        string `json:"tarefa" validate:"required,min=3"`
	Description string `json:"descricao" validate:"required,min=10"`
}

// OccurrenceSubmitRequest is the individual student occurrence form.
//
// StudentCode identifies the confirmed student picked from search results.
// It deliberately carries no `required` tag: a missing confirmation is not a
// field validation error but a NoStudentSelected failure, surfaced by the
// service before any validation of the free-typed name could mask it.
type OccurrenceSubmitRequest struct {
	Discipline     string `json:"disciplina" validate:"required"`
	StudentName    string `json:"nome_aluno" validate:"required"`
	StudentCode    string `json:"codigo_aluno"`
	OccurrenceType string `json:"tipo_ocorrencia" validate:"required,occurrence_type"`
	Description    string `json:"descricao" validate:"required,min=10"`
}

// AnnouncementSubmitRequest is the class/school-wide announcement form. A
// class is required only when the announcement targets a single class.
type AnnouncementSubmitRequest struct {
	Recipient   string `json:"destinatario" validate:"required,oneof=todas unica"`
	Class       string `json:"turma" validate:"required_if=Recipient unica"`
	Title       string `json:"titulo" validate:"required,min=3"`
	Description string `json:"descricao" validate:"required,min=10"`
}
