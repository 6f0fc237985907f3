package domain

import "errors"

// Errores de dominio (sin dependencias externas).
//
// Las divisiones con denominador cero/ausente NO son errores: las fórmulas
// guardadas devuelven un valor indefinido (NullDecimal inválido) que la capa
// de presentación muestra como NULL/vacío.
var (
	ErrStorageUnavailable = errors.New("almacenamiento no disponible")
	ErrSchemaMismatch     = errors.New("columna derivada no coincide con el esquema esperado")
	ErrRecordNotFound     = errors.New("registro no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
)
