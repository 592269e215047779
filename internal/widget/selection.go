package widget

import (
	"github.com/i474232898/city-weather/internal/weather"
)

// Change describes a selection event delivered to subscribers.
type Change struct {
	City  weather.City
	Epoch Epoch
	// Moved is false when the new city has the coordinates of the previous one.
	Moved bool
}

// CitySelection is the single source of truth for the active city.
// It starts at a default city and only changes on explicit selection.
type CitySelection struct {
	loop        *loop
	search      *SearchSession
	city        weather.City
	epoch       Epoch
	subscribers []func(Change)
}

func newCitySelection(l *loop, search *SearchSession, def weather.City) *CitySelection {
	return &CitySelection{loop: l, search: search, city: def}
}

// Select makes the candidate the active city and resets the search box.
// The selection epoch advances only when the coordinates change.
func (c *CitySelection) Select(candidate weather.Candidate) error {
	city, err := candidate.City()
	if err != nil {
		return err
	}
	c.loop.do(func() { c.selectCity(city) })
	return nil
}

func (c *CitySelection) selectCity(city weather.City) {
	c.search.reset()

	moved := !c.city.SamePlace(city)
	c.city = city
	if moved {
		c.epoch++
	}

	ch := Change{City: city, Epoch: c.epoch, Moved: moved}
	for _, fn := range c.subscribers {
		fn(ch)
	}
}

// Subscribe registers fn for every selection. fn runs on the widget's event
// loop and must not call back into the widget.
func (c *CitySelection) Subscribe(fn func(Change)) {
	c.loop.do(func() { c.subscribers = append(c.subscribers, fn) })
}

// Current returns the active city.
func (c *CitySelection) Current() weather.City {
	c.loop.mu.Lock()
	defer c.loop.mu.Unlock()
	return c.city
}

// Epoch returns the current selection epoch.
func (c *CitySelection) Epoch() Epoch {
	c.loop.mu.Lock()
	defer c.loop.mu.Unlock()
	return c.epoch
}
