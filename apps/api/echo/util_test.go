package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/junaidjmomin/classroom/core"
	"github.com/junaidjmomin/classroom/core/task"
	"github.com/junaidjmomin/classroom/services/email"
	"github.com/junaidjmomin/classroom/storage/inmem"
	"github.com/junaidjmomin/classroom/tests"
)

// setup builds a test server over store (an in-memory one when omitted).
func setup(t *testing.T, store ...core.Store) (*Server, *task.Service) {
	conf := testutil.Config()
	logger := new(testutil.Logger)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	task.InitValidators(validate, translator)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	st := inmem.NewStore()
	if len(store) > 0 {
		st = store[0]
	}
	taskSvc := task.NewService(st, mailSvc, validate, logger, conf)

	// set up server
	s := NewServer(
		ServerDeps{
			Conf:       conf,
			Logger:     logger,
			TaskSvc:    taskSvc,
			Validate:   validate,
			Translator: translator,
		},
	)
	t.Cleanup(func() { _ = s.Close() })
	return s, taskSvc
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// lostStore fails every call the way the database store does once its connection is gone.
type lostStore struct{}

func (lostStore) Load(context.Context, string) ([]byte, error) {
	return nil, core.NewShutdownError("database connection lost")
}

func (lostStore) Save(context.Context, string, []byte) error {
	return core.NewShutdownError("database connection lost")
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode() failed: %v; body %s", err, rec.Body.String())
	}
}
