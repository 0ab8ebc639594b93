package mpv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	socketType = "unix"

	resultSuccess = "success"

	dialRetryInterval = 250 * time.Millisecond

	commandDispatcherComponent = "mpv.CommandDispatcher"
)

var (
	// ErrCommandFailedResponse informs about mpv returning something other than "success" in an error field of a response.
	ErrCommandFailedResponse = errors.New("mpv response does not include success state")

	// ErrConnectionClosed informs about the connection being closed before the response to the request arrived.
	ErrConnectionClosed = errors.New("connection to mpv closed before response arrived")

	// ErrConnectionInProgress informs about failure of operation due to connection of command dispatcher being in progress.
	ErrConnectionInProgress = errors.New("command dispatcher is connected to mpv socket")

	// ErrNotConnected informs about a request made while there is no connection to mpv.
	ErrNotConnected = errors.New("command dispatcher is not connected to mpv socket")

	// ErrRequestTimeout informs about mpv not responding to the request in time.
	ErrRequestTimeout = errors.New("mpv did not respond to the request in time")

	// ErrSocketUnavailable informs about failure to connect to mpv socket before connection timeout.
	ErrSocketUnavailable = errors.New("could not connect to mpv socket")
)

// commandPayload represents command payload sent to the mpv
type commandPayload struct {
	Command   []interface{} `json:"command"`
	RequestID int           `json:"request_id"`
}

// Response is a result of executing mpv request command.
type Response struct {
	Data interface{} `json:"data"`
}

// ObservePropertyResponse is a result of mpv emitting event with a property change
type ObservePropertyResponse struct {
	Response
	Property string
}

// ResponsePayload holds data returned after mpv command execution through json IPC, or an event sent by mpv.
type ResponsePayload struct {
	Err       string      `json:"error"`
	RequestID int         `json:"request_id"`
	ID        int         `json:"id"`
	Event     string      `json:"event"`
	Name      string      `json:"name"`
	Data      interface{} `json:"data"`
	Reason    string      `json:"reason"`
	FileError string      `json:"file_error"`
}

// commandDispatcher connects to the provided socket path and handles sending commands and handling results.
// Property changes and events are distributed to subscribers' channels - subscribers are expected to drain them promptly,
// since delivery blocks reading of further responses.
type commandDispatcher struct {
	conn                  net.Conn
	connLock              *sync.RWMutex
	connectionTimeout     time.Duration
	eventSubscribers      []chan<- Event
	eventSubscribersLock  *sync.RWMutex
	log                   zerolog.Logger
	propertyObservers     map[string][]chan<- ObservePropertyResponse
	propertyObserversLock *sync.RWMutex
	requestTimeout        time.Duration
	requests              map[int]chan ResponsePayload
	requestsLock          *sync.Mutex
	requestID             int
	requestIDLock         *sync.Mutex
	socketPath            string
}

type commandDispatcherConfig struct {
	connectionTimeout time.Duration
	logger            zerolog.Logger
	requestTimeout    time.Duration
	socketPath        string
}

func newCommandDispatcher(cfg commandDispatcherConfig) *commandDispatcher {
	return &commandDispatcher{
		connLock:              &sync.RWMutex{},
		connectionTimeout:     cfg.connectionTimeout,
		eventSubscribersLock:  &sync.RWMutex{},
		log:                   cfg.logger.With().Str("component", commandDispatcherComponent).Logger(),
		propertyObservers:     make(map[string][]chan<- ObservePropertyResponse),
		propertyObserversLock: &sync.RWMutex{},
		requestTimeout:        cfg.requestTimeout,
		requests:              make(map[int]chan ResponsePayload),
		requestsLock:          &sync.Mutex{},
		requestID:             1,
		requestIDLock:         &sync.Mutex{},
		socketPath:            cfg.socketPath,
	}
}

// Close closes the connection to mpv, if there is one.
func (cd *commandDispatcher) Close() {
	cd.connLock.Lock()
	defer cd.connLock.Unlock()

	if cd.conn == nil {
		return
	}

	cd.conn.Close()
}

// Connect attempts to connect to the unix socket through which dispatcher will communicate with mpv.
// When connection is already estabilished, ErrConnectionInProgress will be returned.
func (cd *commandDispatcher) Connect(ctx context.Context) error {
	if cd.Connected() {
		return ErrConnectionInProgress
	}

	cd.log.Debug().Str("socket", cd.socketPath).Dur("timeout", cd.connectionTimeout).Msg("trying to connect to mpv socket")
	conn, err := waitForSocketConnection(ctx, cd.socketPath, cd.connectionTimeout)
	if err != nil {
		return err
	}

	cd.connLock.Lock()
	cd.conn = conn
	cd.connLock.Unlock()

	cd.log.Info().Str("socket", cd.socketPath).Msg("connected to mpv socket")

	return nil
}

// Connected informs whether commandDispatcher is ready to make requests and observe properties.
func (cd *commandDispatcher) Connected() bool {
	return cd.connection() != nil
}

// Request sends the command and waits for the first response to it.
func (cd *commandDispatcher) Request(cmd command) (Response, error) {
	conn := cd.connection()
	if conn == nil {
		return Response{}, ErrNotConnected
	}

	requestID := cd.reserveRequestID()
	requestResult := make(chan ResponsePayload, 1)

	cd.requestsLock.Lock()
	cd.requests[requestID] = requestResult
	cd.requestsLock.Unlock()
	defer cd.forgetRequest(requestID)

	err := dispatch(conn, cmd, requestID)
	if err != nil {
		return Response{}, err
	}

	timeout := time.NewTimer(cd.requestTimeout)
	defer timeout.Stop()

	select {
	case resPayload, ok := <-requestResult:
		if !ok {
			return Response{}, ErrConnectionClosed
		}

		if !IsResultSuccess(resPayload) {
			return Response{}, fmt.Errorf("%w: %s '%s'", ErrCommandFailedResponse, cmd.name, resPayload.Err)
		}

		return Response{
			Data: resPayload.Data,
		}, nil
	case <-timeout.C:
		return Response{}, fmt.Errorf("%w: %s", ErrRequestTimeout, cmd.name)
	}
}

// Serve handles communication with mpv through the socket until the connection is closed.
// Properties already registered on command dispatcher are observed anew on each connection,
// since either command dispatcher could be reconnected (due to mpv instance closing etc.), thus losing all observers,
// or subscriptions occured before connection was made.
// Property observing errors are non fatal to serving.
func (cd *commandDispatcher) Serve() error {
	conn := cd.connection()
	if conn == nil {
		return ErrNotConnected
	}

	go cd.observeProperties()
	cd.log.Debug().Str("socket", cd.socketPath).Msg("listening on unix socket")

	defer cd.disconnect()
	responses := NewResponsesIterator(conn)
	for {
		payload, err := responses.Next()
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			cd.log.Warn().Err(err).Msg("could not parse the payload from the connection")
			continue
		} else if err != nil {
			cd.log.Info().Err(err).Msg("connection closed")
			return nil
		}

		err = cd.distributeResponse(payload)
		if err != nil {
			cd.log.Warn().Err(err).Msg("could not distribute response")
		}
	}
}

// SubscribeToEvents registers out to receive every event emitted by mpv.
// The channel is never closed.
func (cd *commandDispatcher) SubscribeToEvents(out chan<- Event) {
	cd.eventSubscribersLock.Lock()
	defer cd.eventSubscribersLock.Unlock()

	cd.eventSubscribers = append(cd.eventSubscribers, out)
}

// SubscribeToProperty registers out to receive changes of the property.
// The request to observe the property is sent right away when connected, otherwise on the next connection.
// The channel is never closed to enable aggregation from multiple observers.
func (cd *commandDispatcher) SubscribeToProperty(propertyName string, out chan<- ObservePropertyResponse) error {
	cd.propertyObserversLock.Lock()
	observers, alreadyObserved := cd.propertyObservers[propertyName]
	cd.propertyObservers[propertyName] = append(observers, out)
	cd.propertyObserversLock.Unlock()

	if alreadyObserved || !cd.Connected() {
		return nil
	}

	return cd.observeProperty(propertyName)
}

func (cd *commandDispatcher) connection() net.Conn {
	cd.connLock.RLock()
	defer cd.connLock.RUnlock()

	return cd.conn
}

func (cd *commandDispatcher) disconnect() {
	cd.connLock.Lock()
	if cd.conn != nil {
		cd.conn.Close()
		cd.conn = nil
	}
	cd.connLock.Unlock()

	cd.requestsLock.Lock()
	defer cd.requestsLock.Unlock()

	for requestID, request := range cd.requests {
		close(request)
		delete(cd.requests, requestID)
	}
}

func (cd *commandDispatcher) distributeResponse(result ResponsePayload) error {
	if result.Event == propertyChangeEvent {
		cd.propertyObserversLock.RLock()
		observers, ok := cd.propertyObservers[result.Name]
		cd.propertyObserversLock.RUnlock()
		if !ok {
			return fmt.Errorf("observe property event provided to not observed property %s", result.Name)
		}

		for _, observer := range observers {
			observer <- ObservePropertyResponse{
				Property: result.Name,
				Response: Response{
					Data: result.Data,
				},
			}
		}

		return nil
	}

	if result.Event != "" {
		event := eventFromPayload(result)

		cd.eventSubscribersLock.RLock()
		defer cd.eventSubscribersLock.RUnlock()

		for _, subscriber := range cd.eventSubscribers {
			subscriber <- event
		}

		return nil
	}

	if result.RequestID == 0 {
		return fmt.Errorf("result provided without RequestID")
	}

	cd.requestsLock.Lock()
	defer cd.requestsLock.Unlock()

	request, ok := cd.requests[result.RequestID]
	if !ok {
		return fmt.Errorf("result %d provided to not dispatched request", result.RequestID)
	}

	request <- result
	close(request)
	delete(cd.requests, result.RequestID)

	return nil
}

func (cd *commandDispatcher) forgetRequest(requestID int) {
	cd.requestsLock.Lock()
	defer cd.requestsLock.Unlock()

	delete(cd.requests, requestID)
}

func (cd *commandDispatcher) observeProperties() {
	cd.propertyObserversLock.RLock()
	propertyNames := make([]string, 0, len(cd.propertyObservers))
	for propertyName := range cd.propertyObservers {
		propertyNames = append(propertyNames, propertyName)
	}
	cd.propertyObserversLock.RUnlock()

	for _, propertyName := range propertyNames {
		err := cd.observeProperty(propertyName)
		if err != nil {
			cd.log.Warn().Err(err).Str("property", propertyName).Msg("could not observe property")
		}
	}
}

func (cd *commandDispatcher) observeProperty(propertyName string) error {
	observeID := cd.reserveRequestID()
	cmd := command{
		name:     observePropertyCommand,
		elements: []interface{}{observeID, propertyName},
	}
	_, err := cd.Request(cmd)

	return err
}

func (cd *commandDispatcher) reserveRequestID() int {
	cd.requestIDLock.Lock()
	defer cd.requestIDLock.Unlock()

	requestID := cd.requestID
	cd.requestID++

	return requestID
}

// IsResultSuccess return whether returned result specifies successful command execution.
func IsResultSuccess(result ResponsePayload) bool {
	return result.Err == resultSuccess
}

func dispatch(conn net.Conn, cmd command, requestID int) error {
	payload, err := prepareCommandPayload(cmd, requestID)
	if err != nil {
		return err
	}

	written, err := conn.Write(payload)
	if err != nil {
		return fmt.Errorf("could not write %s command to mpv socket: %w", cmd.name, err)
	}

	if written != len(payload) {
		return fmt.Errorf("could not write whole %s command to mpv socket, written %d out of %d bytes", cmd.name, written, len(payload))
	}

	return nil
}

// waitForSocketConnection dials the socket until it succeeds, since mpv takes a moment (up to a few seconds) to start listening on it.
func waitForSocketConnection(ctx context.Context, socketPath string, timeout time.Duration) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dialer := net.Dialer{}
	for {
		conn, err := dialer.DialContext(ctx, socketType, socketPath)
		if err == nil {
			return conn, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w at '%s': %s", ErrSocketUnavailable, socketPath, err)
		case <-time.After(dialRetryInterval):
		}
	}
}

func getResponsePayload(payload []byte) (ResponsePayload, error) {
	var result ResponsePayload
	err := json.Unmarshal(payload, &result)
	if err != nil {
		return result, fmt.Errorf("could not parse the response JSON as ResponsePayload: %w", err)
	}

	return result, nil
}

func prepareCommandPayload(cmd command, requestID int) ([]byte, error) {
	cmdPayload := commandPayload{
		Command:   cmd.JSONIPCFormat(),
		RequestID: requestID,
	}

	payload, err := json.Marshal(cmdPayload)
	if err != nil {
		return nil, err
	}

	return append(payload, newline...), nil
}
