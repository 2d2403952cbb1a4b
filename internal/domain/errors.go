package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")

	// Ingesta de la base de inventario.
	ErrMissingStoreColumn = errors.New("columna 'Loja' (tienda) no encontrada en la base")
	ErrMissingColumn      = errors.New("columna obligatoria no encontrada en la base")
	ErrEmptySnapshot      = errors.New("la base de inventario no tiene filas")

	// Parámetros y selección de tiendas (validados antes de ejecutar el motor).
	ErrInvalidParams   = errors.New("parámetros de rateo inválidos")
	ErrEmptyStoreSet   = errors.New("debe seleccionar al menos una tienda de salida y una de entrada")
	ErrStoreInBothSets = errors.New("una tienda no puede ser de salida y de entrada a la vez")
	ErrUnknownStore    = errors.New("tienda no presente en la base de inventario")

	// Resultados vacíos distinguibles de "nada que mover".
	ErrNoOutgoingEligibility = errors.New("ninguna tienda de salida con cantidad liberada > 0 con los parámetros definidos")
	ErrNoIncomingEligibility = errors.New("ninguna tienda de entrada con necesidad > 0 con los parámetros definidos")

	ErrSnapshotSourceDisabled = errors.New("fuente de bases de inventario no configurada")
)
