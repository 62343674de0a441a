package handler // handler defines http handlers

import (
    "errors"
    "strconv"

    "github.com/labstack/echo/v4"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeoutSeconds = 5

// getUserID extracts the user_id stored by JWTAuth from echo.Context
// and converts it to uint64.  JWT numeric claims decode as float64, so
// several representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case float64:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case string:
        if parsed, err := strconv.ParseUint(t, 10, 64); err == nil {
            return parsed, nil
        }
    }
    return 0, errors.New("user_id missing from context")
}

// pathID parses a numeric path parameter, rejecting zero.
func pathID(c echo.Context, name string) (uint64, error) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, errors.New("invalid id")
    }
    return id, nil
}
