package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Rateio-api/internal/application/dto"
	"github.com/jhoicas/Rateio-api/internal/domain"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorTable orden de evaluación de errors.Is; el primero que coincide gana.
var errorTable = []errorMapping{
	{domain.ErrMissingStoreColumn, fiber.StatusBadRequest, "MISSING_STORE_COLUMN"},
	{domain.ErrMissingColumn, fiber.StatusBadRequest, "MISSING_COLUMN"},
	{domain.ErrEmptySnapshot, fiber.StatusBadRequest, "EMPTY_SNAPSHOT"},
	{domain.ErrInvalidParams, fiber.StatusBadRequest, "INVALID_PARAMS"},
	{domain.ErrEmptyStoreSet, fiber.StatusBadRequest, "EMPTY_STORE_SET"},
	{domain.ErrStoreInBothSets, fiber.StatusBadRequest, "STORE_IN_BOTH_SETS"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnknownStore, fiber.StatusUnprocessableEntity, "UNKNOWN_STORE"},
	{domain.ErrNoOutgoingEligibility, fiber.StatusUnprocessableEntity, "NO_OUTGOING_ELIGIBILITY"},
	{domain.ErrNoIncomingEligibility, fiber.StatusUnprocessableEntity, "NO_INCOMING_ELIGIBILITY"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrSnapshotSourceDisabled, fiber.StatusNotImplemented, "SNAPSHOT_SOURCE_DISABLED"},
}

// writeError traduce errores de dominio a dto.ErrorResponse con su código HTTP.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
