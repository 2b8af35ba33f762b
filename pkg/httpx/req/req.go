package req

import (
	"fmt"
	"io"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"coffer_scanner/pkg/errcodes"
)

// Тела запросов API короткие, больше не нужно.
const maxBodyBytes = 64 << 10

//nolint:gochecknoglobals // skip
var (
	json = jsoniter.Config{
		EscapeHTML:             true,
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
		DisallowUnknownFields:  true,
	}.Froze()
	validate = validator.New(validator.WithRequiredStructEnabled())
)

// Read декодирует JSON-тело в dest и проверяет validate-теги. Неизвестные
// поля и тела больше maxBodyBytes отклоняются как InvalidArgument.
func Read(r *http.Request, dest any) error {
	body := io.LimitReader(r.Body, maxBodyBytes+1)

	raw, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("io.ReadAll: %w", err)
	}

	if len(raw) > maxBodyBytes {
		return failure.NewInvalidArgumentError(
			"request body too large",
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription("Request body too large"),
		)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return failure.NewInvalidArgumentError(
			fmt.Errorf("json.Unmarshal: %w", err).Error(),
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription("Invalid JSON"),
		)
	}

	if err := validate.StructCtx(r.Context(), dest); err != nil {
		return failure.NewInvalidArgumentError(
			"validation error",
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription(err.Error()),
		)
	}

	return nil
}
