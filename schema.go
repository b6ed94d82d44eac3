package df

// Identifying columns of the county table.
const (
	StateName   = "State_Name"
	CountyClean = "County_Clean"
	Year        = "Year"
)

// Metric columns referenced by name.
const (
	Population        = "Population"
	RealGDP           = "Real_GDP"
	GDPPerCapita      = "GDP_Per_Capita"
	ViolentCrimeRate  = "Violent_Crime_Rate"
	PropertyCrimeRate = "Property_Crime_Rate"
	TotalCrimeRate    = "Total_Crime_Rate"
	ViolentCrime      = "Violent crime"
	PropertyCrime     = "Property crime"
)

// NumericColumns are coerced to numbers at load whatever the file holds.
var NumericColumns = []string{
	Year, Population, RealGDP, GDPPerCapita,
	ViolentCrimeRate, PropertyCrimeRate, TotalCrimeRate,
	ViolentCrime, PropertyCrime, "Burglary", "Larceny-theft",
	"Motor vehicle theft", "Robbery", "Aggravated assault",
	"Murder and nonnegligent manslaughter", "Forcible rape",
}

// KeyColumns must be present on every retained row.
var KeyColumns = []string{StateName, CountyClean, Year}
