package validation

import "testing"

func TestValidateDestination(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{path: "s3://my-bucket/data/"},
		{path: "s3://my-bucket"},
		{path: "s3://data.lake-01/analytics/2024/"},
		{path: "", wantErr: true},
		{path: "my-bucket/data/", wantErr: true},
		{path: "S3://my-bucket/data/", wantErr: true},
		{path: "https://my-bucket.s3.amazonaws.com/data/", wantErr: true},
		{path: "s3:///data/", wantErr: true},
		{path: "s3://My_Bucket/data/", wantErr: true},
		{path: "s3://b/p/"},
		{path: "s3://ab/data/"},
		{path: "s3://bucket name/data/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := ValidateDestination(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDestination(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAccountID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{id: "123456789012"},
		{id: "000000000000"},
		{id: "12345678901", wantErr: true},
		{id: "1234567890123", wantErr: true},
		{id: "12345678901a", wantErr: true},
		{id: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := ValidateAccountID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAccountID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRoleName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{name: "MyRedshiftRole"},
		{name: "service-role/Unloader"},
		{name: "role+=,.@_-"},
		{name: "", wantErr: true},
		{name: "bad role", wantErr: true},
		{name: "bad:role", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRoleName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRoleName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}
