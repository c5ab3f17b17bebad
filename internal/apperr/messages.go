package apperr

import (
	"errors"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const keyUnexpected = "unexpected_error"

var messages = map[language.Tag]map[string]string{
	language.English: {
		string(KindFetch):           "Could not load the %s list.",
		string(KindSave):            "Could not save the %s.",
		string(KindCreation):        "Could not create the %s.",
		string(KindUpdate):          "Could not update the %s.",
		string(KindDeletion):        "Could not delete the %s.",
		string(KindEmptyTitle):      "A title is required.",
		string(KindTitleTooLong):    "The title is too long.",
		string(KindInvalidPriority): "Priority must be between 0 and 3.",
		string(KindEmptyName):       "A name is required.",
		keyUnexpected:               "Something went wrong.",
		string(EntityTask):          "task",
		string(EntityProject):       "project",
		string(EntityArea):          "area",
		string(EntityTag):           "tag",
	},
	language.Spanish: {
		string(KindFetch):           "No se pudo cargar la lista de %s.",
		string(KindSave):            "No se pudo guardar: %s.",
		string(KindCreation):        "No se pudo crear: %s.",
		string(KindUpdate):          "No se pudo actualizar: %s.",
		string(KindDeletion):        "No se pudo eliminar: %s.",
		string(KindEmptyTitle):      "El título es obligatorio.",
		string(KindTitleTooLong):    "El título es demasiado largo.",
		string(KindInvalidPriority): "La prioridad debe estar entre 0 y 3.",
		string(KindEmptyName):       "El nombre es obligatorio.",
		keyUnexpected:               "Algo salió mal.",
		string(EntityTask):          "tarea",
		string(EntityProject):       "proyecto",
		string(EntityArea):          "área",
		string(EntityTag):           "etiqueta",
	},
}

var cat = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, entries := range messages {
		for key, msg := range entries {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Message renders a user-facing description of err in the given language
func Message(tag language.Tag, err error) string {
	p := message.NewPrinter(tag, message.Catalog(cat))

	var e *Error
	if !errors.As(err, &e) {
		return p.Sprintf(keyUnexpected)
	}
	if e.Kind.IsValidation() {
		return p.Sprintf(string(e.Kind))
	}
	if e.Entity == "" {
		return p.Sprintf(keyUnexpected)
	}
	return p.Sprintf(string(e.Kind), p.Sprintf(string(e.Entity)))
}
