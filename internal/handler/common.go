package handler

import (
    "errors"

    "github.com/labstack/echo/v4"
)

// errNoUser is returned by getUserID when the request carries no
// authenticated identity.
var errNoUser = errors.New("no authenticated user")

// getUserID extracts the authenticated user's identifier placed in
// context by the JWT middleware. Routes behind OptionalJWT may
// legitimately have none.
func getUserID(c echo.Context) (string, error) {
    v := c.Get("user_id")
    if v == nil {
        return "", errNoUser
    }
    s, ok := v.(string)
    if !ok || s == "" {
        return "", errNoUser
    }
    return s, nil
}
