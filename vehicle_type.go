package sumohelper

// VehicleType Kinematic description of one vehicle class, emitted as the
// preamble of the generated routes document
type VehicleType struct {
	ID       string
	Name     string
	Accel    float64
	Decel    float64
	Sigma    float64
	Length   float64
	MinGap   float64
	MaxSpeed float64
	GUIShape string
}

// StandardVehicleTypes returns the four standard vehicle classes every
// generated routes document declares
func StandardVehicleTypes() []VehicleType {
	return []VehicleType{
		{ID: "car", Name: "Passenger Car", Accel: 2.6, Decel: 4.5, Sigma: 0.5, Length: 5.0, MinGap: 2.5, MaxSpeed: 16.67, GUIShape: "passenger"},
		{ID: "motorcycle", Name: "Motorcycle", Accel: 2.6, Decel: 4.5, Sigma: 0.5, Length: 2.5, MinGap: 2.5, MaxSpeed: 20.83, GUIShape: "motorcycle"},
		{ID: "bus", Name: "Bus", Accel: 1.2, Decel: 4.5, Sigma: 0.5, Length: 12.0, MinGap: 3.0, MaxSpeed: 13.89, GUIShape: "bus"},
		{ID: "truck", Name: "Truck", Accel: 1.3, Decel: 4.5, Sigma: 0.5, Length: 8.0, MinGap: 3.0, MaxSpeed: 11.11, GUIShape: "truck"},
	}
}
