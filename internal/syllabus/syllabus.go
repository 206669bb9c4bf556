// Package syllabus holds the fixed list of Seguridad Social exam topics
// the app generates content for.
package syllabus

// Topics lists the syllabus areas available for practical cases, mock
// exams and study material, in display order.
var Topics = []string{
	"Incapacidad Temporal",
	"Jubilación",
	"Muerte y Supervivencia",
	"Cotización y Recaudación",
	"Afiliación y Altas/Bajas",
	"Acción Protectora",
	"Nacimiento y Cuidado de Menor",
	"Incapacidad Permanente",
	"Ingreso Mínimo Vital",
}

// Valid reports whether topic is one of the syllabus areas.
func Valid(topic string) bool {
	for _, t := range Topics {
		if t == topic {
			return true
		}
	}
	return false
}
