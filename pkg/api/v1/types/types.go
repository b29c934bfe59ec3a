package types

type ChargerType string

var ChargerTypeCloudEV = ChargerType("cloudev")
var ChargerTypeModbusEVSE = ChargerType("modbusevse")
var ChargerTypeDummy = ChargerType("dummy")
