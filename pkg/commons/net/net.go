// Copyright (c) 2017 The Kegbot Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package net provides network address helpers.
package net

import (
	"net"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Addr is a parsed network address.
type Addr struct {
	Host string
	Port int
}

func (a Addr) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// ParseAddr extracts a (host, port) address from a string.
// The string is specified as "host:port". If only one value is given, it is
// treated as the port and the default host is used. An empty string returns
// the defaults.
func ParseAddr(s string, defaultHost string, defaultPort int) (Addr, error) {
	addr := Addr{Host: defaultHost, Port: defaultPort}
	if s == "" {
		return addr, nil
	}
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 2:
		port, err := strconv.Atoi(parts[1])
		if err != nil {
			return Addr{}, errors.Wrapf(err, "invalid port in address %q", s)
		}
		addr.Host, addr.Port = parts[0], port
	case 1:
		port, err := strconv.Atoi(parts[0])
		if err != nil {
			return Addr{}, errors.Wrapf(err, "invalid port in address %q", s)
		}
		addr.Port = port
	default:
		return Addr{}, errors.Errorf("invalid address %q", s)
	}
	return addr, nil
}

var localIP *net.IP

// LocalIP returns the cached local IP, looking it up on the first call
func LocalIP() *net.IP {
	if localIP != nil {
		return localIP
	}
	ip, _ := GetLocalIP()
	localIP = ip
	return localIP
}

// GetLocalIP looks up the local IP and returns the first non-loopback IP
func GetLocalIP() (*net.IP, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil, err
	}
	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			return &ipnet.IP, nil
		}
	}
	return nil, errors.New("unable to obtain non loopback local ip address")
}
