package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/tarm/serial"

	"github.com/MBI-Div-B/lakeshore460/gpib"
	"github.com/MBI-Div-B/lakeshore460/lakeshore"
)

func main() {
	log.SetFlags(log.Lshortfile)

	port := flag.String("port", "/dev/ttyUSB0", "Serial port of the Prologix GPIB controller.")
	baud := flag.Int("baud", 115200, "Baud rate of the controller port.")
	bridgeURL := flag.String("bridge", "", "Websocket URL of a GPIB gateway to use instead of the local port.")
	gpibAddr := flag.Int("gpib", 12, "GPIB bus address of the gaussmeter.")
	addr := flag.String("addr", ":9091", "Address to bind the server to.")
	interval := flag.Duration("interval", time.Second, "Poll period for the readings event stream.")
	timeout := flag.Duration("timeout", 3*time.Second, "Bus read timeout.")
	flag.Parse()

	busAddr := gpib.Address(*gpibAddr)

	var conn gpib.Conn
	var err error
	if *bridgeURL != "" {
		conn, err = gpib.DialBridge(*bridgeURL, busAddr, *timeout)
	} else {
		var p *serial.Port
		p, err = serial.OpenPort(&serial.Config{Name: *port, Baud: *baud, ReadTimeout: *timeout})
		if err == nil {
			conn, err = gpib.NewPrologix(p, busAddr)
		}
	}
	if err != nil {
		log.Fatal(err)
	}

	dev, err := lakeshore.Open(conn, busAddr)
	if err != nil {
		conn.Close()
		log.Fatal(err)
	}
	defer dev.Close()
	log.Printf("connected to %s at %s", dev.Identity(), dev.Resource())

	api := newAPI(dev, *interval)

	err = http.ListenAndServe(*addr, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		log.Printf("%s %s - %s", req.Method, req.URL.Path, req.RemoteAddr)
		api.ServeHTTP(w, req)
	}))
	if err != nil {
		log.Fatal(err)
	}
}
