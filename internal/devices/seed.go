package devices

import "log"

var seedDevices = []struct {
	Name     string
	UniqueID string
}{
	{Name: "Vehicle 1", UniqueID: "DEVICE001"},
	{Name: "Vehicle 2", UniqueID: "DEVICE002"},
	{Name: "Vehicle 3", UniqueID: "DEVICE003"},
	{Name: "Truck 1", UniqueID: "TRUCK001"},
	{Name: "Truck 2", UniqueID: "TRUCK002"},
}

type Upserter interface {
	UpsertDevice(name, uniqueID string) error
}

// Seed upserts the demo fleet so a fresh deployment has devices to
// attach positions to. Existing devices are left untouched. A failure
// aborts startup; a deployment without its fleet is misconfigured.
func Seed(repository Upserter) error {
	for _, device := range seedDevices {
		if err := repository.UpsertDevice(device.Name, device.UniqueID); err != nil {
			return err
		}
	}

	log.Println("Demo devices seeded successfully")
	return nil
}
