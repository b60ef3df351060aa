package core

// GPIOPin identifies a hardware GPIO pin number
type GPIOPin uint32

// GPIODriver drives the few digital outputs the bench needs, chiefly the
// codec's active-low reset line.
type GPIODriver interface {
	// ConfigureOutput makes pin a push-pull output
	ConfigureOutput(pin GPIOPin) error

	// SetPin drives the pin high (true) or low (false)
	SetPin(pin GPIOPin, value bool) error

	// GetPin reads back the pin level
	GetPin(pin GPIOPin) (bool, error)
}

var gpioDriver GPIODriver

// SetGPIODriver registers the target's driver.
func SetGPIODriver(d GPIODriver) {
	gpioDriver = d
}

// MustGPIO returns the registered driver or panics if none was set.
func MustGPIO() GPIODriver {
	if gpioDriver == nil {
		panic("core: no GPIO driver registered")
	}
	return gpioDriver
}

// PulseLow configures pin as an output, holds it low for ms milliseconds
// and releases it high.
func PulseLow(d GPIODriver, pin GPIOPin, ms uint32) error {
	if err := d.ConfigureOutput(pin); err != nil {
		return err
	}
	if err := d.SetPin(pin, false); err != nil {
		return err
	}
	if err := Delay(ms); err != nil {
		return err
	}
	return d.SetPin(pin, true)
}
