package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-workout-tracker/token-service/internal/models"
	"github.com/go-workout-tracker/token-service/internal/pkg/log"
	"github.com/go-workout-tracker/token-service/internal/service"
	"github.com/go-workout-tracker/token-service/internal/transport/http/httperr"
)

// Handlers агрегирует зависимости HTTP-обработчиков.
type Handlers struct {
	svc *service.Service
}

// NewHandlers возвращает обработчики поверх сервисного слоя.
func NewHandlers(svc *service.Service) *Handlers {
	return &Handlers{svc: svc}
}

// issueTokensRequest — тело POST /tokens.
type issueTokensRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// refreshTokensRequest — тело POST /tokens/refresh.
type refreshTokensRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// revokeTokenRequest — тело POST /tokens/revoke. Reason опционален;
// пустое значение сервис трактует как logout.
type revokeTokenRequest struct {
	Token  string `json:"token"`
	Reason string `json:"reason,omitempty"`
}

// tokenPairResponse — ответ на выпуск и ротацию пары.
type tokenPairResponse struct {
	AccessToken     string    `json:"access_token"`
	RefreshToken    string    `json:"refresh_token"`
	AccessExpiresAt time.Time `json:"access_expires_at"`
}

// validateTokenResponse — ответ GET /tokens/validate.
type validateTokenResponse struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	JTI       string    `json:"jti"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IssueTokens выпускает новую пару токенов.
//
// POST /tokens -> 201 с парой; 400 при некорректном теле.
func (h *Handlers) IssueTokens(w http.ResponseWriter, r *http.Request) {
	var in issueTokensRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.WriteError(w, r, httperr.ErrInvalidArgument)
		return
	}

	if in.UserID == "" || in.Role == "" {
		httperr.WriteError(w, r, httperr.ErrInvalidArgument)
		return
	}

	pair, err := h.svc.IssueTokenPair(r.Context(), in.UserID, in.Role)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, pairResponse(pair))
}

// RefreshTokens ротирует refresh-токен: выпускает новую пару и гасит
// старый токен.
//
// POST /tokens/refresh -> 200 с новой парой; 401 с кодом верификации,
// если старый токен не прошёл проверку.
//
// Частичный успех (пара выпущена, но старый токен погасить не удалось)
// не скрывается и не превращается в ошибку клиента: пара уже в ответе,
// а недогашенный токен остаётся заботой сервера — запись уходит в лог.
func (h *Handlers) RefreshTokens(w http.ResponseWriter, r *http.Request) {
	var in refreshTokensRequest
	if err := decodeStrict(r, &in); err != nil || in.RefreshToken == "" {
		httperr.WriteError(w, r, httperr.ErrInvalidArgument)
		return
	}

	pair, err := h.svc.RotateRefreshToken(r.Context(), in.RefreshToken)
	if err != nil && !errors.Is(err, service.ErrPartialRotation) {
		httperr.WriteError(w, r, err)
		return
	}

	if err != nil {
		log.From(r.Context()).Warn("rotation_partial_success",
			slog.String("err", err.Error()),
		)
	}

	writeJSON(w, http.StatusOK, pairResponse(pair))
}

// RevokeToken досрочно отзывает токен (access или refresh).
//
// POST /tokens/revoke -> 204; 400 при некорректном теле или причине;
// 401 INVALID_TOKEN_STRUCTURE, если токен не разбирается.
func (h *Handlers) RevokeToken(w http.ResponseWriter, r *http.Request) {
	var in revokeTokenRequest
	if err := decodeStrict(r, &in); err != nil || in.Token == "" {
		httperr.WriteError(w, r, httperr.ErrInvalidArgument)
		return
	}

	reason := models.RevocationReason(in.Reason)
	if reason != "" && reason != models.ReasonLogout && reason != models.ReasonTokenRefresh {
		httperr.WriteError(w, r, httperr.ErrInvalidArgument)
		return
	}

	if err := h.svc.Revoke(r.Context(), in.Token, reason); err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ValidateToken проверяет access-токен из заголовка Authorization.
//
// GET /tokens/validate -> 200 с идентичностью владельца; 401 с кодом
// исхода верификации, по которому клиент отличает "пора на refresh"
// (TOKEN_EXPIRED) от "нужна повторная аутентификация".
func (h *Handlers) ValidateToken(w http.ResponseWriter, r *http.Request) {
	tokenStr, err := service.ExtractBearerToken(r.Header.Get("Authorization"))
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	claims, err := h.svc.VerifyAccessToken(r.Context(), tokenStr)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	resp := validateTokenResponse{
		UserID: claims.Subject,
		Role:   claims.Role,
		JTI:    claims.ID,
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}

	writeJSON(w, http.StatusOK, resp)
}

func pairResponse(pair *models.TokenPair) tokenPairResponse {
	return tokenPairResponse{
		AccessToken:     pair.AccessToken,
		RefreshToken:    pair.RefreshToken,
		AccessExpiresAt: pair.AccessExpiresAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeStrict разбирает JSON-тело запроса, запрещая неизвестные поля.
func decodeStrict(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	return dec.Decode(dst)
}
