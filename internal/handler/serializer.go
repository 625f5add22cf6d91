package handler

import (
    "fmt"
    "net/http"

    jsoniter "github.com/json-iterator/go"
    "github.com/labstack/echo/v4"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONSerializer is echo's JSON codec backed by json-iterator.
type JSONSerializer struct{}

func (JSONSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
    enc := json.NewEncoder(c.Response())
    if indent != "" {
        enc.SetIndent("", indent)
    }
    return enc.Encode(i)
}

func (JSONSerializer) Deserialize(c echo.Context, i interface{}) error {
    err := json.NewDecoder(c.Request().Body).Decode(i)
    if err != nil {
        return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err)).SetInternal(err)
    }
    return nil
}
