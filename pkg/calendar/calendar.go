package calendar

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/commute/pkg/cachedresults"
	"github.com/travigo/commute/pkg/sources"
)

const (
	BankHolidaysURL = "https://www.gov.uk/bank-holidays.json"

	DivisionEnglandAndWales = "england-and-wales"
	DivisionScotland        = "scotland"
	DivisionNorthernIreland = "northern-ireland"

	YearMonthDayFormat = "2006-01-02"
)

const providerName = "gov.uk bank holidays"

type bankHolidayEvent struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

type bankHolidayDivision struct {
	Division string             `json:"division"`
	Events   []bankHolidayEvent `json:"events"`
}

// Calendar answers whether a date is a working day. Bank holidays are fetched
// from gov.uk on first use and kept for the life of the process.
type Calendar struct {
	URL      string
	Division string

	HTTPClient *http.Client
	Cache      *cachedresults.Cache

	mutex        sync.Mutex
	bankHolidays map[string]string
}

func New() *Calendar {
	return &Calendar{
		URL:        BankHolidaysURL,
		Division:   DivisionEnglandAndWales,
		HTTPClient: sources.NewHTTPClient(),
	}
}

func IsWeekend(date time.Time) bool {
	return date.Weekday() == time.Saturday || date.Weekday() == time.Sunday
}

// BankHoliday returns the name of the bank holiday falling on date, or an
// empty string if it is not one.
func (c *Calendar) BankHoliday(ctx context.Context, date time.Time) (string, error) {
	bankHolidays, err := c.load(ctx)
	if err != nil {
		return "", err
	}

	return bankHolidays[date.Format(YearMonthDayFormat)], nil
}

// NonWorkingReason returns why date is not a working day, or an empty string
// if it is one.
func (c *Calendar) NonWorkingReason(ctx context.Context, date time.Time) (string, error) {
	if IsWeekend(date) {
		return "weekend", nil
	}

	title, err := c.BankHoliday(ctx, date)
	if err != nil {
		return "", err
	}
	if title != "" {
		return fmt.Sprintf("bank holiday (%s)", title), nil
	}

	return "", nil
}

func (c *Calendar) load(ctx context.Context) (map[string]string, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.bankHolidays != nil {
		return c.bankHolidays, nil
	}

	var divisions map[string]bankHolidayDivision
	if !c.Cache.GetJSON(ctx, c.Division, &divisions) {
		httpClient := c.HTTPClient
		if httpClient == nil {
			httpClient = http.DefaultClient
		}

		if err := sources.GetJSON(ctx, httpClient, providerName, c.URL, &divisions); err != nil {
			return nil, err
		}

		c.Cache.SetJSON(ctx, c.Division, divisions)
	}

	division, ok := divisions[c.Division]
	if !ok {
		return nil, fmt.Errorf("%w: no bank holidays for %s", sources.ErrUpstream, c.Division)
	}

	bankHolidays := map[string]string{}
	for _, event := range division.Events {
		bankHolidays[event.Date] = event.Title
	}

	log.Info().Str("division", c.Division).Int("count", len(bankHolidays)).Msg("Loaded bank holidays")

	c.bankHolidays = bankHolidays

	return bankHolidays, nil
}
