package dataset

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cleanedCSV = `indicator,country,region,year,value,disease_name,type,country_name,continent
WHS4_100,Fra,Europe,2019,95.5,Whs4_100,Vaccination,France,Europe
MEASLES,Fra,Europe,2020.0,120,Measles,Disease,France,Europe
MEASLES,Fra,Europe,,130,Measles,Disease,France,Europe
MEASLES,Fra,Europe,2021,not a number,Measles,Disease,France,Europe
`

func TestReadCSV(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(cleanedCSV), ColType, ColCountry, ColDisease, ColYear, ColValue)
	require.Nil(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, "WHS4_100", records[0].Indicator)
	assert.Equal(t, "Vaccination", records[0].Type)
	assert.Equal(t, 2019, records[0].Year)
	assert.True(t, records[0].HasYear)
	assert.Equal(t, 95.5, records[0].Value)
	assert.Equal(t, "France", records[0].CountryName)
	assert.True(t, math.IsNaN(records[0].ChangePct))

	assert.Equal(t, 2020, records[1].Year, "integral float years are accepted")
	assert.False(t, records[2].HasYear)
	assert.False(t, records[3].HasValue())
}

func TestReadCSVDiseaseCode(t *testing.T) {
	in := "indicator,country,region,year,value,disease_code\nMCV1,USA,Americas,2020,91,MCV1\n"
	records, err := ReadCSV(strings.NewReader(in), ColDisease)
	require.Nil(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "MCV1", records[0].Disease)
}

func TestReadCSVErrors(t *testing.T) {
	testData := map[string]struct {
		in       string
		required []string
		err      error
	}{
		"empty":          {"", nil, ErrNoHeader},
		"missing column": {"country,year\nFRA,2020\n", []string{ColValue}, ErrMissingColumn},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(td.in), td.required...)
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestWriteCSV(t *testing.T) {
	rec := NewRecord()
	rec.CountryName = "France"
	rec.Year = 2020
	rec.HasYear = true
	rec.Type = "Disease"
	rec.Disease = "Measles"
	rec.Value = 12.5
	rec.ChangePct = 0.9
	rec.Anomaly = "sudden_spike"

	missing := NewRecord()
	missing.CountryName = "Spain"

	var buf bytes.Buffer
	require.Nil(t, WriteCSV(&buf, []Record{rec, missing}, AggregatedColumns))

	expected := "country_name,year,type,disease_name,value,region,continent,change_pct,anomaly\n" +
		"France,2020,Disease,Measles,12.5,,,0.9,sudden_spike\n" +
		"Spain,,,,,,,,\n"
	assert.Equal(t, expected, buf.String())

	records, err := ReadCSV(&buf)
	require.Nil(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, rec, records[0])

	err = WriteCSV(&buf, nil, []string{"bogus"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestForecastCSV(t *testing.T) {
	rows := []ForecastRow{
		{Country: "Fra", Disease: "Measles", Year: 2023, Forecast: 156.5, Model: "LinearRegression"},
		{Country: "Fra", Disease: "Measles", Year: 2024, Forecast: 168, Model: "LinearRegression"},
	}

	var buf bytes.Buffer
	require.Nil(t, WriteForecastCSV(&buf, rows))
	assert.True(t, strings.HasPrefix(buf.String(), "country,disease,year,forecast,model\n"))
	assert.Contains(t, buf.String(), "Fra,Measles,2023,156.5,LinearRegression\n")

	res, err := ReadForecastCSV(&buf)
	require.Nil(t, err)
	assert.Equal(t, rows, res)

	_, err = ReadForecastCSV(strings.NewReader("country,year\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestReadCountryCodes(t *testing.T) {
	in := "code_2,code_3,country,continent\n" +
		"FR,FRA,France,Europe\n" +
		"broken,row\n" +
		"US,USA,United States,North America\n"
	codes, err := ReadCountryCodes(strings.NewReader(in))
	require.Nil(t, err)
	require.Len(t, codes, 2)
	assert.Equal(t, CountryCode{Code3: "FRA", Name: "France", Continent: "Europe"}, codes["FRA"])

	_, err = ReadCountryCodes(strings.NewReader("code,name\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)
}
