package service

import (
	"fmt"
	"strings"
)

// Service is a network exposed service.
//
// It contains only the logic and user configured addresses it should be
// exposed on.
type Service interface {
	fmt.Stringer

	// ServiceName returns the user friendly name of the service.
	ServiceName() string

	// ExposeOn returns the set of endpoints the service should be exposed on.
	ExposeOn() []Endpoint
}

func svcString(s Service) string {
	endpoints := make([]string, 0, len(s.ExposeOn()))
	for _, e := range s.ExposeOn() {
		endpoints = append(endpoints, e.String())
	}

	return fmt.Sprintf("%s on %s", s.ServiceName(), strings.Join(endpoints, ", "))
}

// Info can be embedded in structs to help implement Service.
type Info struct {
	name      string
	endpoints []Endpoint
}

func NewInfo(name string, endpoints []Endpoint) Info {
	return Info{name: name, endpoints: endpoints}
}

func (i *Info) ServiceName() string  { return i.name }
func (i *Info) ExposeOn() []Endpoint { return i.endpoints }
func (i *Info) String() string       { return svcString(i) }
