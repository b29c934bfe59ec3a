package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/goburrow/modbus"
	"github.com/nergy-se/evcharge/pkg/modbusclient"
)

var decimals = flag.Int("decimals", 1, "scale read values by 10^decimals")

// probe wallbox registers over modbus tcp while mapping a new EVSE
// model. reads default to the registers the controller uses.
func main() {
	address := flag.String("addr", "", "tcp modbus address of the wallbox")

	inputreg := flag.Int("inputreg", 0, "input reg, 1002 vehicle state, 1006 charge current, 1020 power")
	holdingreg := flag.Int("holdingreg", 0, "")
	coil := flag.Int("coil", 0, "coil, 400 charging enable")

	slaveID := flag.Int("slave", 1, "modbus slave id")
	value := flag.Int("value", 0, "value to write. will write any value")
	flag.Parse()

	handler := modbus.NewTCPClientHandler(*address)
	handler.SlaveId = byte(*slaveID)
	client := modbus.NewClient(handler)

	var f interface{}
	var err error
	if isFlagPassed("inputreg") {
		f, err = scale(read(client.ReadInputRegisters(uint16(*inputreg), 1)))
	}
	if isFlagPassed("holdingreg") {
		if isFlagPassed("value") {
			f, err = client.WriteSingleRegister(uint16(*holdingreg), uint16(*value))
		} else {
			f, err = scale(read(client.ReadHoldingRegisters(uint16(*holdingreg), 1)))
		}
	}
	if isFlagPassed("coil") {
		if isFlagPassed("value") {
			f, err = client.WriteSingleCoil(uint16(*coil), modbusclient.CoilValue(*value != 0))
		} else {
			f, err = client.ReadCoils(uint16(*coil), 1)
		}
	}

	if err != nil {
		log.Println("error was: ", err)
	}
	if v, ok := f.([]byte); ok {
		fmt.Printf("raw response: %# x (length: %d)\n", v, len(v))
	}
	log.Println("value is: ", f)
	handler.Close()
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func read(b []byte, err error) (int, error) {
	fmt.Printf("raw response: %# x (length: %d)\n", b, len(b))
	return modbusclient.Decode(b), err
}

func scale(i int, err error) (float64, error) {
	div := 1.0
	for n := 0; n < *decimals; n++ {
		div *= 10
	}
	return float64(i) / div, err
}
