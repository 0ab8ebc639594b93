package common

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

const (
	methodsSeparator = ", "

	multiPartFormMaxMemory   = 32 << 20
	multiPartFormContentType = "multipart/form-data"

	accessControlAllowOriginHeader  = "Access-Control-Allow-Origin"
	accessControlAllowMethodsHeader = "Access-Control-Allow-Methods"
	accessControlAllowHeadersHeader = "Access-Control-Allow-Headers"
	allowHeader                     = "Allow"
	contentTypeHeader               = "Content-Type"

	allowedOrigins = "*"
	allowedHeaders = "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Method"

	jsonContentType = "application/json"
)

type FormArgumentHandler func(http.ResponseWriter, *http.Request) error
type FormArgumentValidator func(*http.Request) error

// FormArgument describes handling of a single form argument.
// Arguments without Handle are only validated, they modify how other arguments are handled.
type FormArgument struct {
	Name     string
	Handle   FormArgumentHandler
	Validate FormArgumentValidator
}

type FormResponse struct {
	HandlerErrors
}

type HandlerErrors struct {
	ArgumentErrors map[string]string `json:"argumentErrors"`
	GeneralError   string            `json:"generalError"`
}

// MethodHandlers specifiy map between http method and respective handler function.
type MethodHandlers map[string]http.HandlerFunc

// PathHandlerConfig specifies per-path behavior for path handling middleware.
type PathHandlerConfig struct {
	MethodHandlers
	AllowCORS bool
}

// PathHandler returns a function acting as a middleware before handling specified path.
func PathHandler(cfg PathHandlerConfig) http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		if cfg.AllowCORS {
			res.Header().Set(accessControlAllowOriginHeader, allowedOrigins)
		}

		method := req.Method
		if method == http.MethodOptions {
			optionsHandler(allowedMethods(cfg.MethodHandlers), res)

			return
		}

		if method == http.MethodHead {
			method = http.MethodGet
		}

		handler, ok := cfg.MethodHandlers[method]
		if !ok {
			res.Header().Set(allowHeader, strings.Join(allowedMethods(cfg.MethodHandlers), methodsSeparator))
			res.WriteHeader(http.StatusMethodNotAllowed)

			return
		}

		handler(res, req)
	}
}

// WriteJSON responds with payload encoded to JSON, or with 500 when encoding fails.
func WriteJSON(res http.ResponseWriter, status int, payload any) {
	out, err := json.Marshal(payload)
	if err != nil {
		res.WriteHeader(http.StatusInternalServerError)
		res.Write([]byte(fmt.Sprintf("could not encode json payload: %s", err)))

		return
	}

	res.Header().Set(contentTypeHeader, jsonContentType)
	res.WriteHeader(status)
	res.Write(out)
}

func optionsHandler(allowedMethods []string, res http.ResponseWriter) {
	allowedMethods = append(allowedMethods, http.MethodOptions)

	res.Header().Set(accessControlAllowMethodsHeader, strings.Join(allowedMethods, methodsSeparator))
	res.Header().Set(accessControlAllowHeadersHeader, allowedHeaders)
	res.WriteHeader(http.StatusNoContent)
}

func allowedMethods(handlers MethodHandlers) []string {
	var allowedMethods []string

	for method := range handlers {
		allowedMethods = append(allowedMethods, method)
	}
	sort.Strings(allowedMethods)

	return allowedMethods
}

// CreateFormHandler returns handler function responsible for correct validation and routing of arguments to their handlers.
// Handlers of arguments present in the form are called in the order of arguments.
// No handler is called when any argument is invalid or unknown.
func CreateFormHandler(arguments []FormArgument) http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		responsePayload := FormResponse{}

		selectedArgHandlers, errors := validateFormRequest(req, arguments)
		responsePayload.HandlerErrors = errors

		if responsePayload.GeneralError != "" || len(responsePayload.ArgumentErrors) != 0 {
			WriteJSON(res, http.StatusBadRequest, responsePayload)

			return
		}

		for _, handler := range selectedArgHandlers {
			err := handler(res, req)
			if err != nil {
				responsePayload.GeneralError = err.Error()
				WriteJSON(res, http.StatusConflict, responsePayload)

				return
			}
		}

		WriteJSON(res, http.StatusOK, responsePayload)
	}
}

// validateFormRequest checks form body for arguments and their correctnes.
// Result of validation is a list of handlers of arguments present in the form, and handlerErrors (if any occured).
func validateFormRequest(req *http.Request, arguments []FormArgument) ([]FormArgumentHandler, HandlerErrors) {
	correctHandlers := []FormArgumentHandler{}
	handlerErrors := HandlerErrors{
		ArgumentErrors: map[string]string{},
	}

	var err error
	if multipartFormRequest(req) {
		err = req.ParseMultipartForm(multiPartFormMaxMemory)
	} else {
		err = req.ParseForm()
	}

	if err != nil {
		handlerErrors.GeneralError = fmt.Sprintf("could not parse form data: %s", err)

		return correctHandlers, handlerErrors
	}

	known := map[string]bool{}
	for _, argument := range arguments {
		known[argument.Name] = true
	}

	for argName := range req.PostForm {
		if !known[argName] {
			handlerErrors.ArgumentErrors[argName] = fmt.Sprintf("the %s argument handler is not defined", argName)
		}
	}

	for _, argument := range arguments {
		if _, ok := req.PostForm[argument.Name]; !ok {
			continue
		}

		if argument.Validate != nil {
			validateErr := argument.Validate(req)
			if validateErr != nil {
				handlerErrors.ArgumentErrors[argument.Name] = fmt.Sprintf("the %s argument is invalid: %s", argument.Name, validateErr)
				continue
			}
		}

		if argument.Handle == nil {
			continue
		}

		correctHandlers = append(correctHandlers, argument.Handle)
	}

	return correctHandlers, handlerErrors
}

func multipartFormRequest(req *http.Request) bool {
	contentType, ok := req.Header[contentTypeHeader]

	return ok && len(contentType) > 0 && strings.Contains(contentType[0], multiPartFormContentType)
}
