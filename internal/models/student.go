package models

// Student is one record of the school directory. The directory is owned by
// the external database; the service only ever holds an ephemeral read-only
// copy fetched per search cycle. Identity is by Code.
type Student struct {
	Code    string `json:"codigo" gorm:"column:codigo;primaryKey"`
	Name    string `json:"nome" gorm:"column:nome"`
	ClassID string `json:"turma_id" gorm:"column:turma"`
	Course  string `json:"curso,omitempty" gorm:"column:curso"`
}

func (Student) TableName() string {
	return "relacao_alunos"
}

// ID returns the stable identity of the record.
func (s Student) ID() string {
	return s.Code
}

// Discipline is a subject taught at the school, used to label content and
// occurrence submissions.
type Discipline struct {
	ID   uint   `json:"id" gorm:"column:id;primaryKey"`
	Name string `json:"nome" gorm:"column:disciplina"`
}

func (Discipline) TableName() string {
	return "disciplinas_alunos"
}

// Class is a school class (turma).
type Class struct {
	ID   string `json:"id" gorm:"column:codigo;primaryKey"`
	Name string `json:"nome" gorm:"column:turma"`
}

func (Class) TableName() string {
	return "turmas_alunos"
}

// OccurrenceTypes is the fixed set of accepted occurrence categories. The
// occurrence form rejects anything outside this list.
var OccurrenceTypes = []string{
	"Acidente ou Ferimento",
	"Advertência Escolar",
	"Atrasado",
	"Baixo Rendimento Escolar",
	"Dano ao Patrimônio Escolar",
	"Desempenho Destacado",
	"Dificuldade no Aprendizado",
	"Entrega Atrasada de Atividades",
	"Indisciplina",
	"Mal-Estar",
}

// IsValidOccurrenceType reports whether t is one of the accepted categories.
func IsValidOccurrenceType(t string) bool {
	for _, ot := range OccurrenceTypes {
		if ot == t {
			return true
		}
	}
	return false
}
