package sieve

import "github.com/sirupsen/logrus"

var log = logrus.WithField("prefix", "sieve")
