package models

import "github.com/google/uuid"

// All returns every persisted model in dependency order, parents first
func All() []interface{} {
	return []interface{}{
		&Customer{},
		&User{},
		&Project{},
		&Building{},
		&Facade{},
		&Panel{},
		&Note{},
		&DeletionLog{},
	}
}

func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
