package main

import (
	"encoding/json"
	"errors"
	"io/ioutil"
	"log"
	"net/http"
	"strings"
	"time"

	sse "github.com/alexandrevicenzi/go-sse"
	"github.com/gorilla/mux"

	"github.com/MBI-Div-B/lakeshore460/gpib"
	"github.com/MBI-Div-B/lakeshore460/lakeshore"
)

type api struct {
	http.Handler
	dev *lakeshore.Device
	sse *sse.Server
}

type readingsResponse struct {
	lakeshore.Reading
	Magnitude float64 `json:"magnitude"`
}

func newAPI(dev *lakeshore.Device, interval time.Duration) *api {
	r := mux.NewRouter()

	a := &api{
		Handler: r,
		dev:     dev,
		sse: sse.NewServer(&sse.Options{
			Logger: log.New(ioutil.Discard, "", 0),
		}),
	}

	r.HandleFunc("/api/readings", a.readings).Methods("GET")
	r.HandleFunc("/api/field/{axis}", a.field).Methods("GET")
	r.HandleFunc("/api/identity", a.identity).Methods("GET")
	r.HandleFunc("/api/reset", a.reset).Methods("POST")
	r.PathPrefix("/events/").Handler(a.sse)

	go a.poll(interval)

	return a
}

// poll feeds the event stream. It shares the device mutex with the API
// handlers, so a slow bus delays events rather than overlapping queries.
func (a *api) poll(interval time.Duration) {
	for range time.NewTicker(interval).C {
		reading, err := a.dev.Readings()
		if err != nil {
			log.Printf("ERROR: poll readings: %+v", err)
			continue
		}
		data, err := json.Marshal(readingsResponse{Reading: reading, Magnitude: reading.Magnitude()})
		if err != nil {
			log.Printf("ERROR: marshal json: %+v", err)
			continue
		}
		a.sse.SendMessage("/events/readings", sse.SimpleMessage(string(data)))
	}
}

func (a *api) fail(w http.ResponseWriter, op string, err error) {
	log.Printf("ERROR: %s: %+v", op, err)
	var connErr *gpib.ConnectionError
	var parseErr *lakeshore.ParseError
	if errors.As(err, &connErr) || errors.As(err, &parseErr) {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (a *api) readings(w http.ResponseWriter, req *http.Request) {
	reading, err := a.dev.Readings()
	if err != nil {
		a.fail(w, "readings", err)
		return
	}
	err = json.NewEncoder(w).Encode(readingsResponse{Reading: reading, Magnitude: reading.Magnitude()})
	if err != nil {
		log.Println("ERROR: encode:", err)
	}
}

func (a *api) field(w http.ResponseWriter, req *http.Request) {
	axis := strings.ToLower(mux.Vars(req)["axis"])
	switch axis {
	case "x", "y", "z":
	default:
		http.Error(w, "axis must be one of x, y, z", http.StatusBadRequest)
		return
	}

	val, err := a.dev.Field(axis)
	if err != nil {
		a.fail(w, "field "+axis, err)
		return
	}
	err = json.NewEncoder(w).Encode(map[string]float64{"m" + axis: val})
	if err != nil {
		log.Println("ERROR: encode:", err)
	}
}

func (a *api) identity(w http.ResponseWriter, req *http.Request) {
	err := json.NewEncoder(w).Encode(map[string]string{
		"identity": a.dev.Identity(),
		"resource": a.dev.Resource(),
	})
	if err != nil {
		log.Println("ERROR: encode:", err)
	}
}

func (a *api) reset(w http.ResponseWriter, req *http.Request) {
	if err := a.dev.Reset(); err != nil {
		a.fail(w, "reset", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
